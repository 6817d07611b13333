package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/bmp"

	"github.com/qrstudio/qrstudio/internal/model"
)

const jpegQuality = 95

// Filename derives the canonical output name for a record.
func Filename(rec model.Record) string {
	return "qrcode_" + rec.ID + rec.OutputFormat.Ext()
}

// Save renders the record and writes it to path in the record's output
// format. Formats without a native encoder fall back to PNG bytes.
func Save(rec model.Record, path string) error {
	rec.Normalize()
	switch rec.OutputFormat {
	case model.FormatSVG:
		doc, err := SVG(rec)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(doc), 0o644)
	case model.FormatPDF:
		return savePDF(rec, path)
	}

	img, err := Render(rec)
	if err != nil {
		return err
	}
	return writeRaster(img, rec.OutputFormat, path)
}

func writeRaster(img image.Image, format model.Format, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case model.FormatJPEG:
		return jpeg.Encode(f, flattenOnWhite(img), &jpeg.Options{Quality: jpegQuality})
	case model.FormatBMP:
		return bmp.Encode(f, img)
	default:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(f, img)
	}
}

// savePDF writes the rendered symbol as a single-page PDF by importing an
// intermediate PNG.
func savePDF(rec model.Record, path string) error {
	img, err := Render(rec)
	if err != nil {
		return err
	}
	tmp, err := os.MkdirTemp("", "qrstudio-pdf-")
	if err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	pngPath := filepath.Join(tmp, "symbol.png")
	if err := writeRaster(img, model.FormatPNG, pngPath); err != nil {
		return err
	}
	if err := api.ImportImagesFile([]string{pngPath}, path, nil, nil); err != nil {
		return fmt.Errorf("writing pdf %s: %w", path, err)
	}
	return nil
}

// flattenOnWhite composites the image over a white background. JPEG has no
// alpha channel, so transparent regions must land on something deliberate.
func flattenOnWhite(img image.Image) image.Image {
	flat := image.NewRGBA(img.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, img.Bounds().Min, draw.Over)
	return flat
}
