// Package domain defines the test file and suite tree types shared by the
// loader, the framework strategies and the serializer.
package domain

// Language represents a programming language.
type Language string

// Languages the bundled strategies can load.
const (
	LanguageGo         Language = "go"
	LanguageJavaScript Language = "javascript"
	LanguageTSX        Language = "tsx"
	LanguageTypeScript Language = "typescript"
)
