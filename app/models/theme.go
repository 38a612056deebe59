package models

// Validate checks if the theme meets all validation requirements
func (t *Theme) Validate() error {
	return validate.Struct(t)
}
