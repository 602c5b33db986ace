package compiler

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	testFileSuffix  = ".spec.ts"
	defaultTestName = "generated-test"
)

// Describe turns a kebab- or snake-case spec name into Title Case words.
func Describe(specName string) string {
	words := strings.FieldsFunc(specName, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '\t'
	})

	if len(words) == 0 {
		return cases.Title(language.English).String(strings.ReplaceAll(defaultTestName, "-", " "))
	}

	return cases.Title(language.English).String(strings.Join(words, " "))
}

// TestPath returns <outputDir>/<specName>.spec.ts.
func TestPath(outputDir, specName string) string {
	name := strings.TrimSpace(specName)
	if name == "" {
		name = defaultTestName
	}

	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	return path.Join(outputDir, name+testFileSuffix)
}
