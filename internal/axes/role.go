package axes

// Role is a semantic tag attached to an axis. Layers use roles to find the
// axis they operate over without relying on names.
type Role string

// Predefined roles.
const (
	Time           Role = "time"
	Batch          Role = "batch"
	Recurrent      Role = "recurrent"
	FeaturesInput  Role = "features_input"
	FeaturesOutput Role = "features_output"
	Channel        Role = "channel"
	Height         Role = "height"
	Width          Role = "width"
	Depth          Role = "depth"
)

// NewRole creates a user-defined role.
func NewRole(name string) Role {
	return Role(name)
}

// String returns the role name.
func (r Role) String() string {
	return string(r)
}
