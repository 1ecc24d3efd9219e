package domain

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	MinRating            = 1
	MaxRating            = 5
	MaxDetailDescription = 500
)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsImageRef accepts absolute http(s) URLs and site-relative paths.
func IsImageRef(s string) bool {
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return true
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s Service) Validate() error {
	switch {
	case blank(s.ID):
		return invalid("Service id is required.")
	case blank(s.Title):
		return invalid("Title is required.")
	case blank(s.Alt):
		return invalid("Alt text is required.")
	case blank(s.Description):
		return invalid("Description is required.")
	case !IsImageRef(s.Src):
		return invalid("Image URL must be a valid URL.")
	}
	return nil
}

func (f ServiceForm) Validate() error {
	switch {
	case blank(f.Title):
		return invalid("Title is required.")
	case blank(f.Alt):
		return invalid("Alt text is required.")
	case blank(f.Description):
		return invalid("Description is required.")
	}
	return nil
}

func (f ClientForm) Validate() error {
	if blank(f.CompanyName) || blank(f.Industry) || blank(f.Product) ||
		blank(f.ScopeOfWork) || blank(f.Description) || blank(f.Feedback.Message) {
		return invalid("All text fields are mandatory.")
	}
	if f.Feedback.Rating < MinRating || f.Feedback.Rating > MaxRating {
		return invalid("Rating must be between 1 and 5.")
	}
	return nil
}

func (f ProjectForm) Validate() error {
	if blank(f.ClientName) || blank(f.ProjectType) || f.Year == 0 || blank(f.Description) {
		return invalid("All fields are mandatory.")
	}
	return nil
}

func (f ServiceDetailForm) Validate() error {
	if utf8.RuneCountInString(f.Description) > MaxDetailDescription {
		return invalid("Description exceeds 500 characters.")
	}
	return nil
}

func (f LogoForm) Validate(hasFile bool) error {
	if blank(f.Title) {
		return invalid("Enter a title for the logo")
	}
	if !hasFile && blank(f.URL) {
		return invalid("Enter a URL")
	}
	if !hasFile && !IsImageRef(f.URL) {
		return invalid("Logo URL must be a valid URL.")
	}
	return nil
}
