package record

import (
	"errors"
	"slices"
	"strconv"
)

// ErrNotFound is returned by lookups for records the host does not have.
var ErrNotFound = errors.New("record not found")

// FileStage identifies the workflow area a submission file belongs to.
type FileStage int

const (
	FileStageProof           FileStage = 10
	FileStageProductionReady FileStage = 11
)

// SubmissionFile is a file uploaded against a submission.
type SubmissionFile struct {
	ID           int       `yaml:"id"`
	FileID       int       `yaml:"file_id"`
	SubmissionID int       `yaml:"submission_id"`
	GenreID      int       `yaml:"genre_id"`
	FileStage    FileStage `yaml:"file_stage"`
	Name         string    `yaml:"name,omitempty"`
}

// GenreCategory classifies what kind of component a genre describes.
type GenreCategory string

const (
	GenreCategoryDocument      GenreCategory = "document"
	GenreCategoryArtwork       GenreCategory = "artwork"
	GenreCategorySupplementary GenreCategory = "supplementary"
)

// Genre is the host's classification of a submission file's role.
type Genre struct {
	ID            int           `yaml:"id"`
	Key           string        `yaml:"key,omitempty"`
	Category      GenreCategory `yaml:"category"`
	Dependent     bool          `yaml:"dependent,omitempty"`
	Supplementary bool          `yaml:"supplementary,omitempty"`
}

// UserGroup is a role-bearing group of users within a journal.
type UserGroup struct {
	ID            int    `yaml:"id"`
	ContextID     int    `yaml:"context_id"`
	NameLocaleKey string `yaml:"name_locale_key"`
	UserIDs       []int  `yaml:"user_ids,omitempty"`
}

// User is a registered account.
type User struct {
	ID         int       `yaml:"id"`
	GivenName  Localized `yaml:"given_name"`
	FamilyName Localized `yaml:"family_name,omitempty"`
	MiddleName string    `yaml:"middle_name,omitempty"`
	Email      string    `yaml:"email,omitempty"`
}

// Role is a privilege a requester holds in a journal.
type Role string

const (
	RoleSiteAdmin           Role = "site_admin"
	RoleManager             Role = "manager"
	RoleSubEditor           Role = "sub_editor"
	RoleAssistant           Role = "assistant"
	RoleSubscriptionManager Role = "subscription_manager"
	RoleAuthor              Role = "author"
	RoleReader              Role = "reader"
)

// Actor describes who is asking for a record. A nil Actor is an anonymous
// request with no known origin.
type Actor struct {
	UserID     int
	Roles      []Role
	RemoteAddr string
	RemoteHost string
}

// HasRole reports whether the actor holds any of the given roles.
func (a *Actor) HasRole(roles ...Role) bool {
	if a == nil {
		return false
	}
	for _, r := range roles {
		if slices.Contains(a.Roles, r) {
			return true
		}
	}
	return false
}

// SubmissionFiles looks up submission files.
type SubmissionFiles interface {
	// SubmissionFile returns the file with the given ID, or nil if there is none.
	SubmissionFile(id int) (*SubmissionFile, error)

	// SubmissionFilesByStage returns a submission's files in one file stage.
	SubmissionFilesByStage(submissionID int, stage FileStage) ([]*SubmissionFile, error)
}

// FileService reads stored file contents.
type FileService interface {
	ReadFile(fileID int) ([]byte, error)
	MimeType(fileID int) (string, error)
}

// Genres looks up file genres.
type Genres interface {
	Genre(id int) (*Genre, error)
}

// Directory enumerates user groups and their members.
type Directory interface {
	UserGroups(contextID int) ([]*UserGroup, error)
	UsersInGroup(groupID int) ([]*User, error)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
