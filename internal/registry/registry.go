package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/locvowork/trial_report/internal/domain"
)

// Registry is an in-memory graph of programs, tractors, departments and field reports.
// Relations are explicit name lists on both ends. Safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	programs    map[string]*domain.Program
	tractors    map[string]*domain.Tractor
	departments map[string]*domain.Department
	reports     []domain.FieldReport
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		programs:    make(map[string]*domain.Program),
		tractors:    make(map[string]*domain.Tractor),
		departments: make(map[string]*domain.Department),
	}
}

// AddProgram creates the program if absent and returns its snapshot.
// The first non-empty observation target wins.
func (r *Registry) AddProgram(name, target string) domain.Program {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[name]
	if !ok {
		p = &domain.Program{Name: name}
		r.programs[name] = p
	}
	if p.ObservationTarget == "" {
		p.ObservationTarget = target
	}
	return clonePM(p)
}

// AddTractor creates the tractor if absent; known tractors keep their attributes.
func (r *Registry) AddTractor(serial, model, warranty string) domain.Tractor {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tractors[serial]
	if !ok {
		t = &domain.Tractor{Serial: serial, Model: model, WarrantyDate: warranty}
		r.tractors[serial] = t
	}
	return cloneTR(t)
}

// AddDepartment creates the department if absent.
func (r *Registry) AddDepartment(name string) domain.Department {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.departments[name]
	if !ok {
		d = &domain.Department{Name: name}
		r.departments[name] = d
	}
	return cloneDP(d)
}

// LinkTractor relates a program and a tractor and marks the program active.
func (r *Registry) LinkTractor(program, serial string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[program]
	if !ok {
		return fmt.Errorf("program %q: %w", program, ErrNotFound)
	}
	t, ok := r.tractors[serial]
	if !ok {
		return fmt.Errorf("tractor %q: %w", serial, ErrNotFound)
	}
	p.Tractors = appendUnique(p.Tractors, serial)
	t.Programs = appendUnique(t.Programs, program)
	p.Active = true
	return nil
}

// LinkDepartment relates a program and a department.
func (r *Registry) LinkDepartment(program, department string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.programs[program]
	if !ok {
		return fmt.Errorf("program %q: %w", program, ErrNotFound)
	}
	d, ok := r.departments[department]
	if !ok {
		return fmt.Errorf("department %q: %w", department, ErrNotFound)
	}
	p.Departments = appendUnique(p.Departments, department)
	d.Programs = appendUnique(d.Programs, program)
	return nil
}

// AddReport stores a field report and links it to its program and tractor when they exist.
func (r *Registry) AddReport(rep domain.FieldReport) domain.FieldReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep.ID = len(r.reports) + 1
	r.reports = append(r.reports, rep)
	if p, ok := r.programs[rep.Program]; ok {
		p.Reports = append(p.Reports, rep.ID)
	}
	if t, ok := r.tractors[rep.Tractor]; ok {
		t.Reports = append(t.Reports, rep.ID)
	}
	return rep
}

// Program returns a snapshot of the named program.
func (r *Registry) Program(name string) (domain.Program, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.programs[name]
	if !ok {
		return domain.Program{}, false
	}
	return clonePM(p), true
}

// Tractor returns a snapshot of the tractor with serial.
func (r *Registry) Tractor(serial string) (domain.Tractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tractors[serial]
	if !ok {
		return domain.Tractor{}, false
	}
	return cloneTR(t), true
}

// Programs returns every program sorted by name.
func (r *Registry) Programs() []domain.Program {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Program, 0, len(r.programs))
	for _, p := range r.programs {
		out = append(out, clonePM(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ActivePrograms returns the programs with at least one tractor, sorted by name.
func (r *Registry) ActivePrograms() []domain.Program {
	var out []domain.Program
	for _, p := range r.Programs() {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// ProgramsOfDepartment returns the program names owned by a department, sorted.
func (r *Registry) ProgramsOfDepartment(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.departments[name]
	if !ok {
		return nil
	}
	out := append([]string(nil), d.Programs...)
	sort.Strings(out)
	return out
}

// ReportsOfProgram returns the field reports filed under a program, in insertion order.
func (r *Registry) ReportsOfProgram(name string) []domain.FieldReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.programs[name]
	if !ok {
		return nil
	}
	out := make([]domain.FieldReport, 0, len(p.Reports))
	for _, id := range p.Reports {
		out = append(out, r.reports[id-1])
	}
	return out
}

// Stats counts the registry contents.
func (r *Registry) Stats() domain.RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := domain.RegistryStats{
		Programs:    len(r.programs),
		Tractors:    len(r.tractors),
		Departments: len(r.departments),
		Reports:     len(r.reports),
	}
	for _, p := range r.programs {
		if p.Active {
			s.ActivePrograms++
		}
	}
	for _, t := range r.tractors {
		if len(t.Programs) > 0 {
			s.TractorsWithPrograms++
		}
	}
	return s
}

func appendUnique(list []string, v string) []string {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

func clonePM(p *domain.Program) domain.Program {
	c := *p
	c.Tractors = append([]string(nil), p.Tractors...)
	c.Departments = append([]string(nil), p.Departments...)
	c.Reports = append([]int(nil), p.Reports...)
	return c
}

func cloneTR(t *domain.Tractor) domain.Tractor {
	c := *t
	c.Programs = append([]string(nil), t.Programs...)
	c.Reports = append([]int(nil), t.Reports...)
	return c
}

func cloneDP(d *domain.Department) domain.Department {
	c := *d
	c.Programs = append([]string(nil), d.Programs...)
	return c
}
