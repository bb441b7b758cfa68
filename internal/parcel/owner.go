package parcel

import (
	"encoding/json"
	"fmt"
	"path/filepath"
)

// AdminSentinel is the persisted form of the Admin owner.
const AdminSentinel = "@_admin"

// OwnerKind is the closed set of owner variants. The zero value is Public.
type OwnerKind uint8

const (
	KindPublic OwnerKind = iota
	KindUser
	KindAdmin
)

// Owner identifies who submitted a parcel. Name is only set for KindUser.
// Owners are comparable with ==.
type Owner struct {
	Kind OwnerKind
	Name string
}

func Admin() Owner           { return Owner{Kind: KindAdmin} }
func Public() Owner          { return Owner{Kind: KindPublic} }
func User(name string) Owner { return Owner{Kind: KindUser, Name: name} }
func (o Owner) IsUser() bool { return o.Kind == KindUser }

// OwnerFromHomedir derives a user owner from the last element of a home
// directory path. A directory named AdminSentinel yields no owner, since
// that name would be read back as Admin.
func OwnerFromHomedir(homedir string) (Owner, bool) {
	name := filepath.Base(filepath.Clean(homedir))
	if name == "." || name == string(filepath.Separator) || name == "" || name == AdminSentinel {
		return Owner{}, false
	}
	return User(name), true
}

// Priority orders owners for conflict resolution: admin > user > public.
// All users share the same priority.
func (o Owner) Priority() int {
	switch o.Kind {
	case KindAdmin:
		return 3
	case KindUser:
		return 2
	default:
		return 1
	}
}

func (o Owner) String() string {
	switch o.Kind {
	case KindAdmin:
		return "admin"
	case KindUser:
		return "~" + o.Name
	default:
		return "public"
	}
}

// MarshalJSON writes admin as AdminSentinel, a user as its name and public as null.
func (o Owner) MarshalJSON() ([]byte, error) {
	switch o.Kind {
	case KindAdmin:
		return json.Marshal(AdminSentinel)
	case KindUser:
		return json.Marshal(o.Name)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON. AdminSentinel always reads back as admin.
func (o *Owner) UnmarshalJSON(b []byte) error {
	var name *string
	if err := json.Unmarshal(b, &name); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	switch {
	case name == nil:
		*o = Public()
	case *name == AdminSentinel:
		*o = Admin()
	default:
		*o = User(*name)
	}
	return nil
}
