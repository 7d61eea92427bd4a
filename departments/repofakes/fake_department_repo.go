package repofakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hospitalmgmt/auth-service/departments"
)

var _ departments.Repo = (*FakeDepartmentRepo)(nil)

type FakeDepartmentRepo struct {
	byID   map[uuid.UUID]*departments.Department
	byName map[string]uuid.UUID
	lock   sync.RWMutex
}

func NewFakeDepartmentRepo() *FakeDepartmentRepo {
	return &FakeDepartmentRepo{
		byID:   make(map[uuid.UUID]*departments.Department),
		byName: make(map[string]uuid.UUID),
	}
}

func (r *FakeDepartmentRepo) Create(_ context.Context, department *departments.Department) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byName[department.Name]; ok {
		return departments.ErrNameTaken
	}
	if department.ID == uuid.Nil {
		department.ID = uuid.New()
	}
	now := time.Now()
	department.CreatedAt = now
	department.UpdatedAt = now

	cp := *department
	r.byID[department.ID] = &cp
	r.byName[department.Name] = department.ID
	return nil
}

func (r *FakeDepartmentRepo) Update(_ context.Context, department *departments.Department) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	existing, ok := r.byID[department.ID]
	if !ok {
		return departments.ErrNotFound
	}
	if id, ok := r.byName[department.Name]; ok && id != department.ID {
		return departments.ErrNameTaken
	}
	delete(r.byName, existing.Name)

	department.CreatedAt = existing.CreatedAt
	department.UpdatedAt = time.Now()
	cp := *department
	r.byID[department.ID] = &cp
	r.byName[department.Name] = department.ID
	return nil
}

func (r *FakeDepartmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	department, ok := r.byID[id]
	if !ok {
		return departments.ErrNotFound
	}
	delete(r.byName, department.Name)
	delete(r.byID, id)
	return nil
}

func (r *FakeDepartmentRepo) GetByID(_ context.Context, id uuid.UUID) (*departments.Department, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	department, ok := r.byID[id]
	if !ok {
		return nil, departments.ErrNotFound
	}
	cp := *department
	return &cp, nil
}

func (r *FakeDepartmentRepo) List(_ context.Context, offset, limit int) ([]*departments.Department, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*departments.Department, 0, len(r.byID))
	for _, d := range r.byID {
		cp := *d
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
