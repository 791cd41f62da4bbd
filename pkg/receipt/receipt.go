// Package receipt extracts the transfer amount and DEP wire reference from
// uploaded bank receipt images, so declared bank transfers can be matched to
// their proof automatically.
package receipt

import (
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Result is one extraction outcome. Confidence is a rough proxy in [0,1];
// callers should treat anything under ~0.15 as noise.
type Result struct {
	Amount     int64
	Reference  string
	Raw        string
	Confidence float64
}

// ExtractFromImage runs preprocessing plus two Tesseract passes (full
// charset for the reference, currency-focused for the amount) and combines
// the texts. Returns ErrNoAmount when no plausible amount is present; a
// missing reference is not an error.
func ExtractFromImage(path string) (Result, error) {
	texts, err := runPasses(path)
	if err != nil {
		return Result{}, fmt.Errorf("ocr passes: %w", err)
	}
	all := strings.Join(texts, " ")

	res := Result{Reference: FindReference(all)}

	matches := FindAmounts(all)
	amt, raw, ok := BestAmount(all, matches)
	if !ok {
		if res.Reference != "" {
			// Reference without amount still helps matching; report it with
			// zero amount rather than dropping the whole extraction.
			return res, nil
		}
		return Result{}, ErrNoAmount
	}
	res.Amount = amt
	res.Raw = raw
	res.Confidence = 0.5
	if strings.HasSuffix(raw, ",00") || strings.Contains(strings.ToLower(all), "montant") {
		res.Confidence = 0.85
	}
	if res.Reference != "" {
		res.Confidence += 0.1
	}
	if res.Confidence > 1 {
		res.Confidence = 1
	}
	return res, nil
}

// runPasses OCRs the original and a preprocessed variant of the image.
func runPasses(path string) ([]string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	clean := prepare(img)

	tmp := path
	if tmpFile, err := os.CreateTemp("", "receipt-*.png"); err == nil {
		tmp = tmpFile.Name()
		_ = tmpFile.Close()
		_ = imaging.Save(clean, tmp)
		defer os.Remove(tmp)
	}

	var texts []string

	full := gosseract.NewClient()
	defer full.Close()
	_ = full.SetLanguage("fra", "eng")
	full.SetImage(path)
	if t, err := full.Text(); err == nil {
		texts = append(texts, normalizeText(t))
	}

	amount := gosseract.NewClient()
	defer amount.Close()
	_ = amount.SetLanguage("fra", "eng")
	_ = amount.SetWhitelist("0123456789DEPdep€EUReur.,:()#- ")
	amount.SetImage(tmp)
	if t, err := amount.Text(); err == nil {
		texts = append(texts, normalizeText(t))
	}

	if len(texts) == 0 {
		return nil, fmt.Errorf("tesseract produced no text for %s", path)
	}
	return texts, nil
}
