package models

// ShareState is the sharing status of a note, expressed as a tagged
// variant instead of a bare optional field: a note is either Private
// or Public under a specific slug.
type ShareState interface {
	shareState()
}

// Private means no public copy exists.
type Private struct{}

// Public means a shared copy exists remotely under Slug.
type Public struct {
	Slug string
}

func (Private) shareState() {}
func (Public) shareState()  {}

// StateOf derives the sharing state from a note record.
func StateOf(n *Note) ShareState {
	if n.CloudSlug != "" {
		return Public{Slug: n.CloudSlug}
	}
	return Private{}
}
