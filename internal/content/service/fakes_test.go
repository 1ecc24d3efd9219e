package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/bytedocker/site/internal/content/domain"
	"github.com/bytedocker/site/internal/content/repository"
	"github.com/bytedocker/site/internal/media"
)

type fakeCards struct {
	mu      sync.Mutex
	cards   []domain.Service
	exists  bool
	failSet error
}

func (f *fakeCards) Cards(context.Context) ([]domain.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists {
		return nil, domain.ErrContentNotFound
	}
	return append([]domain.Service(nil), f.cards...), nil
}

func (f *fakeCards) Append(_ context.Context, card domain.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet != nil {
		return f.failSet
	}
	f.exists = true
	f.cards = append(f.cards, card)
	return nil
}

func (f *fakeCards) Mutate(_ context.Context, fn func([]domain.Service) ([]domain.Service, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists {
		return domain.ErrContentNotFound
	}
	next, err := fn(append([]domain.Service(nil), f.cards...))
	if err != nil {
		return err
	}
	if f.failSet != nil {
		return f.failSet
	}
	f.cards = next
	return nil
}

func (f *fakeCards) Seed(_ context.Context, cards []domain.Service) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exists {
		return false, nil
	}
	f.exists = true
	f.cards = append([]domain.Service(nil), cards...)
	return true, nil
}

// docs is a tiny keyed store shared by the collection fakes.
type docs[T any] struct {
	mu       sync.Mutex
	items    map[string]T
	notFound error
	failPut  error
}

func newDocs[T any](notFound error) *docs[T] {
	return &docs[T]{items: map[string]T{}, notFound: notFound}
}

func (d *docs[T]) list() []T {
	d.mu.Lock()
	defer d.mu.Unlock()
	keys := make([]string, 0, len(d.items))
	for k := range d.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, d.items[k])
	}
	return out
}

func (d *docs[T]) get(id string) (*T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, ok := d.items[id]
	if !ok {
		return nil, d.notFound
	}
	return &v, nil
}

func (d *docs[T]) put(id string, v T, mustExist, mustNotExist bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failPut != nil {
		return d.failPut
	}
	_, ok := d.items[id]
	if mustExist && !ok {
		return d.notFound
	}
	if mustNotExist && ok {
		return domain.ErrAlreadyExists
	}
	d.items[id] = v
	return nil
}

func (d *docs[T]) del(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.items, id)
	return nil
}

type fakeClients struct{ *docs[domain.Client] }

func (f fakeClients) List(context.Context) ([]domain.Client, error) { return f.list(), nil }
func (f fakeClients) Get(_ context.Context, id string) (*domain.Client, error) {
	return f.get(id)
}
func (f fakeClients) Create(_ context.Context, c *domain.Client) error {
	return f.put(c.ID, *c, false, true)
}
func (f fakeClients) Update(_ context.Context, c *domain.Client) error {
	return f.put(c.ID, *c, true, false)
}
func (f fakeClients) Delete(_ context.Context, id string) error { return f.del(id) }
func (f fakeClients) Empty(context.Context) (bool, error)     { return len(f.list()) == 0, nil }
func (f fakeClients) SeedMany(_ context.Context, cs []domain.Client) error {
	for _, c := range cs {
		if err := f.put(c.ID, c, false, false); err != nil {
			return err
		}
	}
	return nil
}

type fakeProjects struct{ *docs[domain.Project] }

func (f fakeProjects) List(context.Context) ([]domain.Project, error) { return f.list(), nil }
func (f fakeProjects) Get(_ context.Context, id string) (*domain.Project, error) {
	return f.get(id)
}
func (f fakeProjects) Create(_ context.Context, p *domain.Project) error {
	return f.put(p.ID, *p, false, true)
}
func (f fakeProjects) Update(_ context.Context, p *domain.Project) error {
	return f.put(p.ID, *p, true, false)
}
func (f fakeProjects) Delete(_ context.Context, id string) error { return f.del(id) }

type fakeDetails struct {
	*docs[domain.ServiceDetail]
	plans []repository.DetailSyncPlan
}

func (f *fakeDetails) List(context.Context) ([]domain.ServiceDetail, error) { return f.list(), nil }
func (f *fakeDetails) Get(_ context.Context, id string) (*domain.ServiceDetail, error) {
	return f.get(id)
}
func (f *fakeDetails) Update(_ context.Context, d *domain.ServiceDetail) error {
	return f.put(d.ID, *d, true, false)
}
func (f *fakeDetails) ApplySync(_ context.Context, plan repository.DetailSyncPlan) error {
	f.plans = append(f.plans, plan)
	for _, d := range plan.Create {
		_ = f.put(d.ID, d, false, false)
	}
	for _, c := range plan.Refresh {
		cur, err := f.get(c.ID)
		if err != nil {
			return err
		}
		cur.Title = c.Title
		cur.UpdatedAt = plan.Now
		_ = f.put(c.ID, *cur, true, false)
	}
	for _, id := range plan.Remove {
		_ = f.del(id)
	}
	return nil
}

type fakeLogos struct {
	*docs[domain.Logo]
	seq int
}

func (f *fakeLogos) List(context.Context) ([]domain.Logo, error) { return f.list(), nil }
func (f *fakeLogos) Get(_ context.Context, id string) (*domain.Logo, error) {
	return f.get(id)
}
func (f *fakeLogos) Create(_ context.Context, l *domain.Logo) error {
	f.seq++
	l.ID = fmt.Sprintf("logo-%d", f.seq)
	return f.put(l.ID, *l, false, true)
}
func (f *fakeLogos) Delete(_ context.Context, id string) error { return f.del(id) }

const bucketURL = "https://firebasestorage.googleapis.com/v0/b/test/o/"

// fakeMedia stores nothing; it records object names and deletions.
type fakeMedia struct {
	mu        sync.Mutex
	seq       int
	uploaded  []string
	deleted   []string
	failAfter int
}

func (m *fakeMedia) store(objectPath string, f media.File) (media.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && len(m.uploaded) >= m.failAfter {
		return media.Object{}, media.ErrTooLarge
	}
	if _, err := io.ReadAll(f.Body); err != nil {
		return media.Object{}, err
	}
	m.uploaded = append(m.uploaded, objectPath)
	return media.Object{Path: objectPath, URL: bucketURL + objectPath}, nil
}

func (m *fakeMedia) Upload(_ context.Context, prefix string, f media.File) (media.Object, error) {
	m.seq++
	return m.store(path.Join(prefix, fmt.Sprintf("u%d-%s", m.seq, f.Name)), f)
}

func (m *fakeMedia) UploadTimestamped(_ context.Context, prefix, stem string, f media.File) (media.Object, error) {
	m.seq++
	return m.store(path.Join(prefix, fmt.Sprintf("%s%d_%s", stem, m.seq, f.Name)), f)
}

func (m *fakeMedia) DeleteByURL(_ context.Context, rawURL string) {
	if p, ok := strings.CutPrefix(rawURL, bucketURL); ok {
		m.DeletePath(context.Background(), p)
	}
}

func (m *fakeMedia) DeletePath(_ context.Context, objectPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, objectPath)
}

type fixture struct {
	svc      *ContentService
	cards    *fakeCards
	clients  fakeClients
	projects fakeProjects
	details  *fakeDetails
	logos    *fakeLogos
	media    *fakeMedia
}

func newFixture() *fixture {
	f := &fixture{
		cards:    &fakeCards{},
		clients:  fakeClients{newDocs[domain.Client](domain.ErrClientNotFound)},
		projects: fakeProjects{newDocs[domain.Project](domain.ErrProjectNotFound)},
		details:  &fakeDetails{docs: newDocs[domain.ServiceDetail](domain.ErrServiceDetailNotFound)},
		logos:    &fakeLogos{docs: newDocs[domain.Logo](domain.ErrLogoNotFound)},
		media:    &fakeMedia{},
	}
	f.svc = New(Deps{
		Services: f.cards,
		Clients:  f.clients,
		Projects: f.projects,
		Details:  f.details,
		Logos:    f.logos,
		Media:    f.media,
	})
	seq := 0
	f.svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return f
}

func file(name string) *media.File {
	return &media.File{Name: name, Body: strings.NewReader("png")}
}

var errBoom = errors.New("boom")
