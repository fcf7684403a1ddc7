package flake

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"strings"

	"github.com/esimov/flake/utils"
	"golang.org/x/image/bmp"
)

// RasterExtensions lists the image file types a flake can be encoded to.
var RasterExtensions = []string{".png", ".jpg", ".jpeg", ".bmp"}

// decodeImg decodes an image file to type image.Image.
func decodeImg(src string) (image.Image, error) {
	file, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("could not open the background file: %w", err)
	}
	defer file.Close()

	ctype, err := utils.DetectContentType(file.Name())
	if err != nil {
		return nil, err
	}
	if !strings.Contains(ctype, "image") {
		return nil, errors.New("the background should be an image file")
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("could not decode the background file: %w", err)
	}
	return img, nil
}

// encodeImg encodes an image to w in the format given by the file
// extension. An empty extension stands for a pipe and gets PNG, the only
// supported format keeping transparency.
func encodeImg(w io.Writer, ext string, img image.Image) error {
	switch strings.ToLower(ext) {
	case "", ".png":
		return png.Encode(w, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// loadBackground resolves a background setting that is not a color: an
// image URL or a local image file.
func loadBackground(src string) (image.Image, error) {
	if !utils.IsValidUrl(src) {
		return decodeImg(src)
	}

	f, err := utils.DownloadImage(src)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("could not close the opened file: %v", err)
		}
		os.Remove(f.Name())
	}()

	return decodeImg(f.Name())
}
