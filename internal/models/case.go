package models

import "slices"

// Categories are the fixed case categories in display order. The first one is the default for new cases.
var Categories = []string{ //nolint:gochecknoglobals // fixed enumeration
	"특장차 제어 시스템",
	"유압 · 전장 제어",
	"자동화 제어 시스템",
	"커스텀 특장차 제작",
	"공공기관 납품 사례",
	"유지보수 · 개조 사례",
}

// DefaultCategory is assigned to new drafts.
func DefaultCategory() string {
	return Categories[0]
}

// IsCategory reports whether category is one of [Categories].
func IsCategory(category string) bool {
	return slices.Contains(Categories, category)
}

// Case is a production case study shown in the portfolio.
//
// Thumbnail and Images hold either remote URLs or inlined data URLs.
type Case struct {
	ID           string   `json:"id" yaml:"id"`
	Category     string   `json:"category" yaml:"category"`
	Title        string   `json:"title" yaml:"title"`
	Thumbnail    string   `json:"thumbnail" yaml:"thumbnail"`
	Overview     Overview `json:"overview" yaml:"overview"`
	Requirements []string `json:"requirements" yaml:"requirements"`
	Solution     Solution `json:"solution" yaml:"solution"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	Results      Results  `json:"results" yaml:"results"`
	Images       []string `json:"images" yaml:"images"`
}

// Overview summarises the delivered vehicle.
type Overview struct {
	Type     string `json:"type" yaml:"type"`
	Industry string `json:"industry" yaml:"industry"`
	Purpose  string `json:"purpose" yaml:"purpose"`
	Location string `json:"location" yaml:"location"`
	Duration string `json:"duration" yaml:"duration"`
}

// Solution describes how the control system was built.
type Solution struct {
	Design string `json:"design" yaml:"design"`
	Wiring string `json:"wiring" yaml:"wiring"`
	Safety string `json:"safety" yaml:"safety"`
	Test   string `json:"test" yaml:"test"`
}

// Results lists the measured outcomes.
type Results struct {
	Efficiency  string `json:"efficiency" yaml:"efficiency"`
	Stability   string `json:"stability" yaml:"stability"`
	Maintenance string `json:"maintenance" yaml:"maintenance"`
}

// Clone returns a deep copy of c. The copy never shares slices with c.
func (c Case) Clone() Case {
	c.Requirements = cloneStrings(c.Requirements)
	c.Technologies = cloneStrings(c.Technologies)
	c.Images = cloneStrings(c.Images)
	return c
}

// cloneStrings keeps nil as nil and empty as empty so that JSON round trips stay exact.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// CloneCases deep copies a case sequence.
func CloneCases(cases []Case) []Case {
	if cases == nil {
		return nil
	}
	out := make([]Case, len(cases))
	for i, c := range cases {
		out[i] = c.Clone()
	}
	return out
}
