package domain

// Analysis methods offered to the user. The store does not enforce this set.
const (
	MethodFiveWhys  = "Five Whys"
	MethodFishbone  = "Fishbone"
	MethodBowtie    = "Bowtie"
	MethodFaultTree = "Fault Tree"
)

// Output languages offered to the user.
const (
	LanguageEnglish = "English"
	LanguageFrench  = "Français"
)

// AllMethods returns the analysis methods in display order.
func AllMethods() []string {
	return []string{MethodFiveWhys, MethodFishbone, MethodBowtie, MethodFaultTree}
}

// AllLanguages returns the output languages in display order.
func AllLanguages() []string {
	return []string{LanguageEnglish, LanguageFrench}
}

// IsMethod reports whether m is an offered analysis method.
func IsMethod(m string) bool { return contains(AllMethods(), m) }

// IsLanguage reports whether l is an offered output language.
func IsLanguage(l string) bool { return contains(AllLanguages(), l) }

// AnalysisResult is the outcome of one analysis run.
type AnalysisResult struct {
	// FileName is the base name of the analysed document.
	FileName string

	Method   string
	Language string

	// Body is the generated markdown without the presentation header.
	Body string

	// Display is Body with the presentation header prepended.
	Display string

	// Report is the stored row, nil when persistence was skipped or failed.
	Report *Report

	// StorageWarning describes a persistence failure. The analysis itself succeeded.
	StorageWarning string
}
