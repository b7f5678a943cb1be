// Package policy is the pure access-control decision layer shared by the
// file and course services. It depends on nothing but data: a caller
// identity and the ownership/visibility attributes of a resource.
package policy

import (
	"docshare/internal/domain/models"
)

// Resource is the attribute view the policy needs of a file or course:
// who owns it and whether it is exposed to the public (visibility ==
// public for files, is_published for courses).
type Resource struct {
	OwnerID string
	Public  bool
}

// ForFile adapts a file to its policy attributes.
func ForFile(f *models.File) Resource {
	return Resource{
		OwnerID: f.OwnerID,
		Public:  f.Visibility == models.VisibilityPublic,
	}
}

// ForCourse adapts a course to its policy attributes.
func ForCourse(c *models.Course) Resource {
	return Resource{
		OwnerID: c.InstructorID,
		Public:  c.IsPublished,
	}
}

// CanRead reports whether identity may read the resource: public
// resources are readable by anyone, non-public ones only by the owner
// or an admin.
func CanRead(identity models.Identity, res Resource) bool {
	if res.Public {
		return true
	}
	if identity.IsAnonymous() {
		return false
	}
	return identity.UserID == res.OwnerID || identity.IsAdmin()
}

// CanWrite reports whether identity may update the resource. Updates
// are owner-only: admin does not bypass this check (delete is the only
// admin override).
func CanWrite(identity models.Identity, res Resource) bool {
	return !identity.IsAnonymous() && identity.UserID == res.OwnerID
}

// CanDelete reports whether identity may delete the resource: the owner
// or an admin.
func CanDelete(identity models.Identity, res Resource) bool {
	if identity.IsAnonymous() {
		return false
	}
	return identity.UserID == res.OwnerID || identity.IsAdmin()
}

// ReadScope is the list-level visibility restriction injected into
// queries: rows exposed to the public plus, for authenticated callers,
// their own rows. Listing has no admin override.
type ReadScope struct {
	// OwnerID is empty for anonymous callers (public rows only);
	// otherwise rows owned by this user are visible too.
	OwnerID string
}

// ScopeFor returns the read scope for a caller identity.
func ScopeFor(identity models.Identity) ReadScope {
	return ReadScope{OwnerID: identity.UserID}
}
