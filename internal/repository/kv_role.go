package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/loadboard/internal/db"
	"github.com/alexanderramin/loadboard/internal/domain"
	"github.com/alexanderramin/loadboard/internal/kvstore"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// KVRoleRepo implements RoleRepo on a kvstore.Store.
type KVRoleRepo struct {
	kv kvstore.Store
}

// NewRoleRepo creates a KVRoleRepo over conn.
func NewRoleRepo(conn db.DBTX) *KVRoleRepo {
	return &KVRoleRepo{kv: kvstore.New(conn)}
}

func (r *KVRoleRepo) All(ctx context.Context) (map[string]domain.Role, error) {
	entries, err := r.kv.Scan(ctx, roleSigil)
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	roles := make(map[string]domain.Role, len(entries))
	for _, e := range entries {
		var role domain.Role
		if err := decode("role", e.Key, e.Value, &role); err != nil {
			return nil, err
		}
		roles[strings.TrimPrefix(e.Key, roleSigil)] = role
	}
	return roles, nil
}

func (r *KVRoleRepo) ListIDs(ctx context.Context) ([]string, error) {
	roles, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return SortRoleIDs(roles), nil
}

func (r *KVRoleRepo) Get(ctx context.Context, id string) (*domain.Role, error) {
	raw, ok, err := r.kv.Get(ctx, roleKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("role %q: %w", id, ErrNotFound)
	}
	var role domain.Role
	if err := decode("role", id, raw, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *KVRoleRepo) Put(ctx context.Context, id string, role *domain.Role) error {
	if id == "" {
		return fmt.Errorf("writing role: empty id")
	}
	raw, err := encode("role", role)
	if err != nil {
		return err
	}
	return r.kv.Put(ctx, roleKey(id), raw)
}

func (r *KVRoleRepo) Delete(ctx context.Context, id string) error {
	return r.kv.Delete(ctx, roleKey(id))
}

// SortRoleIDs orders role ids by name using a case-insensitive collation.
func SortRoleIDs(roles map[string]domain.Role) []string {
	ids := make([]string, 0, len(roles))
	for id := range roles {
		ids = append(ids, id)
	}
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(ids, func(i, j int) bool {
		if c := coll.CompareString(roles[ids[i]].Name, roles[ids[j]].Name); c != 0 {
			return c < 0
		}
		return ids[i] < ids[j]
	})
	return ids
}
