package flake

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/flake/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// Ops holds the destination related settings of a run.
type Ops struct {
	Dst, PipeName string
	// Ext is the file type of the images written in series mode.
	Ext     string
	Workers int
}

// result holds the outcome of rendering a single flake of a series.
type result struct {
	path string
	err  error
}

// SupportedExtension reports whether flakes can be written to files with the
// given extension.
func SupportedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".svg" || utils.Contains(RasterExtensions, ext)
}

// Execute generates the flake and writes it to the destination. If the
// destination is an existing directory a whole series is rendered into it,
// one image for every depth from 0 up to the configured depth.
func (p *Processor) Execute(op *Ops) error {
	defaultMsg := fmt.Sprintf("%s %s",
		utils.DecorateText("❄ FLAKE", utils.StatusMessage),
		utils.DecorateText("⇢ generating the snowflake...", utils.DefaultMessage),
	)
	if p.Spinner == nil {
		p.Spinner = utils.NewSpinner(os.Stderr, defaultMsg, time.Millisecond*80)
	}

	now := time.Now()
	if fi, err := os.Stat(op.Dst); err == nil && fi.IsDir() && op.Dst != op.PipeName {
		if err := p.series(op); err != nil {
			return err
		}
	} else {
		ext := filepath.Ext(op.Dst)
		if op.Dst != op.PipeName && !SupportedExtension(ext) {
			return fmt.Errorf("%v file type not supported", ext)
		}
		if err := op.process(p, op.Dst); err != nil {
			return err
		}
		op.printOpStatus(op.Dst)
		fmt.Fprintf(os.Stderr, "Generation time: %s\n",
			utils.DecorateText(utils.FormatTime(p.GenTime), utils.SuccessMessage))
	}
	fmt.Fprintf(os.Stderr, "Execution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))

	return nil
}

// series renders every depth up to the configured one concurrently.
func (p *Processor) series(op *Ops) error {
	var wg sync.WaitGroup

	ext := op.Ext
	if ext == "" {
		ext = ".png"
	}
	if !SupportedExtension(ext) {
		return fmt.Errorf("%v file type not supported", ext)
	}

	// Limit the concurrently running workers to maxWorkers.
	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ch := make(chan result)
	done := make(chan struct{})
	defer close(done)

	depths := produceDepths(done, p.Options.Depth)

	p.Spinner.Start()
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			op.consumer(p, ext, ch, done, depths)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	var errs []error
	var saved []string
	for res := range ch {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(res.path), res.err))
			continue
		}
		saved = append(saved, res.path)
	}
	p.Spinner.Stop()

	for _, path := range saved {
		op.printOpStatus(path)
	}
	return errors.Join(errs...)
}

// produceDepths sends the depths of a series on the returned channel. It
// finishes early if the done channel gets closed.
func produceDepths(done <-chan struct{}, maxDepth int) <-chan int {
	depths := make(chan int)
	go func() {
		defer close(depths)
		for d := 0; d <= maxDepth; d++ {
			select {
			case <-done:
				return
			case depths <- d:
			}
		}
	}()
	return depths
}

// consumer renders the flakes of the depths read from the depths channel
// into the destination directory.
func (op *Ops) consumer(
	p *Processor,
	ext string,
	res chan<- result,
	done <-chan struct{},
	depths <-chan int,
) {
	for d := range depths {
		opts := p.Options
		opts.Depth = d
		// ExportPath names a single file, it makes no sense for a series.
		opts.ExportPath = ""
		proc := &Processor{Options: opts, Renderer: p.Renderer}

		path := filepath.Join(op.Dst, fmt.Sprintf("flake_%d%s", d, ext))
		err := writeFile(proc, path)

		select {
		case <-done:
			return
		case res <- result{path: path, err: err}:
		}
	}
}

// writeFile processes the flake into a new file, removing it on failure.
func writeFile(p *Processor, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	err = p.Process(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
	}
	return err
}

// process generates a single flake into out, which is either a file name or
// the pipe name.
func (op *Ops) process(p *Processor, out string) error {
	successMsg := fmt.Sprintf("%s %s %s\n",
		utils.DecorateText("❄ FLAKE", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the snowflake has been generated successfully ✔", utils.SuccessMessage),
	)
	errorMsg := fmt.Sprintf("%s %s %s\n",
		utils.DecorateText("❄ FLAKE", utils.StatusMessage),
		utils.DecorateText("generating the snowflake failed...", utils.DefaultMessage),
		utils.DecorateText("✘", utils.ErrorMessage),
	)

	dst, err := op.pathToFile(out)
	if err != nil {
		return err
	}

	// Capture CTRL-C signal and restore the cursor visibility back.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer close(signalChan)
	defer signal.Stop(signalChan)
	go func() {
		if _, ok := <-signalChan; !ok {
			return
		}
		p.Spinner.RestoreCursor()
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			os.Remove(f.Name())
		}
		os.Exit(1)
	}()

	p.Spinner.Start()
	err = p.Process(dst)

	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil {
			log.Printf("could not close the opened file: %v", cerr)
		}
		if err != nil {
			// remove the incomplete file in case of an error
			os.Remove(f.Name())
		}
	}

	if err != nil {
		p.Spinner.StopMsg = errorMsg
		p.Spinner.Stop()
		return err
	}
	p.Spinner.StopMsg = successMsg
	p.Spinner.Stop()

	return nil
}

// pathToFile converts the destination path to a writable file.
func (op *Ops) pathToFile(out string) (io.Writer, error) {
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("`-` should be used with a pipe for stdout")
		}
		return os.Stdout, nil
	}
	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to create the destination file: %w", err)
	}
	return dst, nil
}

// printOpStatus displays where the generated flake has been saved.
func (op *Ops) printOpStatus(fname string) {
	if fname == op.PipeName {
		return
	}
	fmt.Fprintf(os.Stderr, "The snowflake has been saved as: %s\n",
		utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
	)
}
