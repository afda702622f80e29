package models

// RecipientKind distinguishes users from groups. The values match the
// "aro" field of Passbolt permissions.
type RecipientKind string

const (
	KindUser  RecipientKind = "User"
	KindGroup RecipientKind = "Group"
)

// RecipientKey identifies a recipient by kind and ID.
type RecipientKey struct {
	Kind RecipientKind
	ID   string
}

// Recipient is a User or a Group that can be granted a permission.
type Recipient interface {
	Key() RecipientKey
	String() string
	recipient()
}

// User is a Passbolt user.
type User struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	GroupsIDs []string

	// GpgKey is nil for users invited but not yet enrolled.
	GpgKey *GpgKey
}

func (u User) Key() RecipientKey { return RecipientKey{Kind: KindUser, ID: u.ID} }
func (u User) String() string    { return u.Username }
func (User) recipient()          {}

// FullName returns the user's first and last name.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Group is a Passbolt group of users.
type Group struct {
	ID         string
	Name       string
	MembersIDs []string
}

func (g Group) Key() RecipientKey { return RecipientKey{Kind: KindGroup, ID: g.ID} }
func (g Group) String() string    { return g.Name }
func (Group) recipient()          {}

// CountByKind returns how many users and groups are in recipients.
func CountByKind(recipients []Recipient) (users, groups int) {
	for _, r := range recipients {
		switch r.Key().Kind {
		case KindUser:
			users++
		case KindGroup:
			groups++
		}
	}
	return users, groups
}
