package catalog

import "regexp"

// Quantization patterns in priority order. IQ schemes must be tried before
// the plain Q form, and BF16 before F16. Each token must be delimited by a
// non-alphanumeric character (or the string edge) on both sides. IQ and Q
// tokens take the whole underscore-joined run, so "Q4_K_XL" and "Q4_0_4_4"
// stay distinct from "Q4_K" and "Q4_0".
var quantPatterns = []*regexp.Regexp{
	quantToken(`IQ\d+_[A-Z0-9]+(?:_[A-Z0-9]+)*`),
	quantToken(`Q\d+(?:_[A-Z0-9]+)*`),
	quantToken(`BF16|F16|F32`),
	quantToken(`GPTQ|AWQ`),
	quantToken(`[A-Z]\d+_\d+`),
}

func quantToken(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^A-Za-z0-9])(` + expr + `)(?:[^A-Za-z0-9]|$)`)
}

// ExtractQuantization returns the quantization label embedded in a model
// filename, e.g. "Q4_K_M" for "Llama-3.2-1B-Instruct-Q4_K_M.gguf". The
// label is returned as written in the filename.
func ExtractQuantization(filename string) (string, bool) {
	for _, re := range quantPatterns {
		if m := re.FindStringSubmatch(filename); m != nil {
			return m[1], true
		}
	}
	return "", false
}
