package extract

import "fmt"

const (
	garbageThreshold = 0.15
	puaThreshold     = 0.10

	replacementChar rune = '�'
	puaStart        rune = ''
	puaEnd          rune = ''
	controlMax      rune = ''
)

// qualityResult is the outcome of scanning extracted text for the
// replacement-char / private-use-area / control-char ratios that signal a
// failed extraction.
type qualityResult struct {
	valid        bool
	garbageRatio float64
	puaRatio     float64
	details      string
}

// analyzeTextQuality counts replacement chars (U+FFFD), Private-Use-Area
// chars (U+E000..U+F8FF), and control chars (below U+001F except \n, \r,
// \t) over text, and rejects when garbage-ratio exceeds 15% or PUA-ratio
// exceeds 10%. Empty text is always invalid.
func analyzeTextQuality(text string) qualityResult {
	if text == "" {
		return qualityResult{valid: false, garbageRatio: 1.0, details: "empty text"}
	}

	var total, replacement, pua, control int
	for _, r := range text {
		total++
		switch {
		case r == replacementChar:
			replacement++
		case r >= puaStart && r <= puaEnd:
			pua++
		case r <= controlMax && r != '\n' && r != '\r' && r != '\t':
			control++
		}
	}

	garbageCount := replacement + pua + control
	garbageRatio := float64(garbageCount) / float64(total)
	puaRatio := float64(pua) / float64(total)

	if garbageRatio > garbageThreshold {
		return qualityResult{
			valid:        false,
			garbageRatio: garbageRatio,
			puaRatio:     puaRatio,
			details: fmt.Sprintf("high garbage ratio: %.1f%% (replacement: %d, pua: %d, control: %d)",
				garbageRatio*100, replacement, pua, control),
		}
	}

	if puaRatio > puaThreshold {
		return qualityResult{
			valid:        false,
			garbageRatio: garbageRatio,
			puaRatio:     puaRatio,
			details:      fmt.Sprintf("high private-use-area ratio: %.1f%% - likely encoding failure", puaRatio*100),
		}
	}

	return qualityResult{
		valid:        true,
		garbageRatio: garbageRatio,
		puaRatio:     puaRatio,
		details:      fmt.Sprintf("valid output: %.2f%% garbage", garbageRatio*100),
	}
}
