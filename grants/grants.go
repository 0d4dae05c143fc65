package grants

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrNotGovernable is returned when grants are read or written on a
// securable that lives in a catalog without fine-grained access control.
var ErrNotGovernable = errors.New("fine-grained access control is not enabled for this catalog")

// Privilege is a named permission that can be granted on a securable.
type Privilege string

const (
	Select        Privilege = "SELECT"
	Modify        Privilege = "MODIFY"
	Usage         Privilege = "USAGE"
	Create        Privilege = "CREATE"
	AllPrivileges Privilege = "ALL PRIVILEGES"
)

// ParsePrivilege maps a SQL privilege name to a Privilege.
func ParsePrivilege(s string) (Privilege, error) {
	normalized := strings.Join(strings.Fields(strings.ToUpper(s)), " ")
	switch Privilege(normalized) {
	case Select, Modify, Usage, Create, AllPrivileges:
		return Privilege(normalized), nil
	}
	return "", errors.Newf("unknown privilege: %q", s)
}

// Grant associates a principal with a privilege on a securable object.
type Grant struct {
	Principal string    `json:"principal"`
	Privilege Privilege `json:"privilege"`
	Object    string    `json:"object"`
}

// Registry records grants per securable object and persists them as JSON
// under the data directory.
type Registry struct {
	mu       sync.RWMutex
	byObject map[string][]Grant
	dataDir  string
}

// NewRegistry creates a registry, loading any previously saved grants.
func NewRegistry(dataDir string) (*Registry, error) {
	r := &Registry{
		byObject: make(map[string][]Grant),
		dataDir:  dataDir,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) grantsFile() string {
	return filepath.Join(r.dataDir, "_grants.json")
}

// load loads saved grants from disk
func (r *Registry) load() error {
	data, err := os.ReadFile(r.grantsFile())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "reading grants file")
	}
	if err := json.Unmarshal(data, &r.byObject); err != nil {
		return errors.Wrap(err, "decoding grants file")
	}
	return nil
}

// save saves grants to disk
func (r *Registry) save() error {
	data, err := json.MarshalIndent(r.byObject, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding grants")
	}
	return os.WriteFile(r.grantsFile(), data, 0644)
}

// Add records a grant. Granting the same privilege to the same principal
// twice is a no-op.
func (r *Registry) Add(object, principal string, priv Privilege) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.byObject[object] {
		if g.Principal == principal && g.Privilege == priv {
			return nil
		}
	}
	r.byObject[object] = append(r.byObject[object], Grant{
		Principal: principal,
		Privilege: priv,
		Object:    object,
	})
	return r.save()
}

// List returns all grants on an object, sorted by principal then privilege.
// An object with no grants lists as empty, not as an error.
func (r *Registry) List(object string) []Grant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Grant, len(r.byObject[object]))
	copy(out, r.byObject[object])
	sort.Slice(out, func(i, j int) bool {
		if out[i].Principal != out[j].Principal {
			return out[i].Principal < out[j].Principal
		}
		return out[i].Privilege < out[j].Privilege
	})
	return out
}

// DropObject removes every grant whose object matches or is contained in
// the given object key prefix. Dropping a database cascades to its tables.
func (r *Registry) DropObject(prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	changed := false
	for object := range r.byObject {
		if object == prefix || strings.HasPrefix(object, prefix+".") {
			delete(r.byObject, object)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save()
}
