package models

import "fmt"

// UserProfile is the locally known identity of the signed-in user.
// The zero value is the profile shown before any sign-in succeeded.
type UserProfile struct {
	DisplayName string `yaml:"display_name"`
	ID          string `yaml:"id"`
	Email       string `yaml:"email"`
	FamilyName  string `yaml:"family_name"`
	GivenName   string `yaml:"given_name"`
}

// String renders the profile as a plain join of its fields
func (p UserProfile) String() string {
	return fmt.Sprintf("UserProfile(displayName=%s, id=%s, email=%s, familyName=%s, givenName=%s)",
		p.DisplayName, p.ID, p.Email, p.FamilyName, p.GivenName)
}

// IsZero reports whether no field is populated
func (p UserProfile) IsZero() bool {
	return p == UserProfile{}
}

// Account is the account object handed back by the identity provider.
// Every field is optional; nil means the provider did not return it.
type Account struct {
	GivenName   *string
	FamilyName  *string
	Email       *string
	ID          *string
	DisplayName *string
}

// Profile converts the account into a UserProfile, mapping absent fields to ""
func (a Account) Profile() UserProfile {
	return UserProfile{
		DisplayName: orEmpty(a.DisplayName),
		ID:          orEmpty(a.ID),
		Email:       orEmpty(a.Email),
		FamilyName:  orEmpty(a.FamilyName),
		GivenName:   orEmpty(a.GivenName),
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to s, for building Account values
func Ptr(s string) *string {
	return &s
}

// Outcome is the result of one delegated sign-in attempt: either Success or Failure
type Outcome interface {
	isOutcome()
}

// Success carries the account returned by the provider
type Success struct {
	Account Account
}

// Failure carries the provider error that ended the attempt
type Failure struct {
	Cause *SignInError
}

func (Success) isOutcome() {}
func (Failure) isOutcome() {}

// Fail builds a Failure outcome from a status code and message
func Fail(code int, message string, err error) Failure {
	return Failure{Cause: NewSignInError(code, message, err)}
}
