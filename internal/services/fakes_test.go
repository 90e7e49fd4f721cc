package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yoockh/jobportal/internal/logger"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/providers/embed"
	"github.com/yoockh/jobportal/internal/providers/extract"
	"github.com/yoockh/jobportal/internal/providers/geocode"
	"github.com/yoockh/jobportal/internal/storage"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeSeekers keeps profiles in memory and applies the subset of update
// paths the services write.
type fakeSeekers struct {
	profiles  map[primitive.ObjectID]*models.JobSeekerProfile
	updates   int
	lastSet   bson.M
	lastUnset []string
	updateErr error
	deleteErr error
	results   []*models.JobSeekerProfile
	lastQuery models.SeekerQuery
}

func newFakeSeekers(ps ...*models.JobSeekerProfile) *fakeSeekers {
	f := &fakeSeekers{profiles: map[primitive.ObjectID]*models.JobSeekerProfile{}}
	for _, p := range ps {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakeSeekers) Create(_ context.Context, p *models.JobSeekerProfile) error {
	if _, ok := f.profiles[p.UserID]; ok {
		return utils.ErrDuplicate
	}
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeSeekers) GetByUserID(_ context.Context, id primitive.ObjectID) (*models.JobSeekerProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *p
	if p.Location != nil {
		l := *p.Location
		cp.Location = &l
	}
	return &cp, nil
}

func (f *fakeSeekers) Update(_ context.Context, id primitive.ObjectID, set bson.M, unset []string) (*models.JobSeekerProfile, error) {
	f.updates++
	f.lastSet, f.lastUnset = set, unset
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	for k, v := range set {
		if strings.HasPrefix(k, "location.") && p.Location == nil {
			p.Location = &models.Location{}
		}
		switch k {
		case "location.zipCode":
			p.Location.ZipCode = v.(string)
		case "location.city":
			p.Location.City = v.(string)
		case "location.latitude":
			lat := v.(float64)
			p.Location.Latitude = &lat
		case "location.longitude":
			lon := v.(float64)
			p.Location.Longitude = &lon
		case "headline":
			p.Headline = v.(string)
		case "skills":
			p.Skills = v.([]string)
		case "resumePath":
			p.ResumePath = v.(string)
		case "resumeOriginalName":
			p.ResumeOriginalName = v.(string)
		case "resumeMimeType":
			p.ResumeMimeType = v.(string)
		}
	}
	for _, k := range unset {
		switch k {
		case "location.latitude":
			if p.Location != nil {
				p.Location.Latitude = nil
			}
		case "location.longitude":
			if p.Location != nil {
				p.Location.Longitude = nil
			}
		}
	}
	return f.GetByUserID(context.Background(), id)
}

func (f *fakeSeekers) SetVectorID(_ context.Context, id primitive.ObjectID, vectorID string) error {
	p, ok := f.profiles[id]
	if !ok {
		return utils.ErrNotFound
	}
	p.VectorID = vectorID
	return nil
}

func (f *fakeSeekers) DeleteByUserID(_ context.Context, id primitive.ObjectID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.profiles[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.profiles, id)
	return nil
}

func (f *fakeSeekers) Search(_ context.Context, q models.SeekerQuery) ([]*models.JobSeekerProfile, int64, error) {
	f.lastQuery = q
	return f.results, int64(len(f.results)), nil
}

type fakeUsers struct {
	users     map[primitive.ObjectID]*models.User
	lastSet   bson.M
	deleted   []primitive.ObjectID
	updateErr error
	createErr error
}

func newFakeUsers(us ...*models.User) *fakeUsers {
	f := &fakeUsers{users: map[primitive.ObjectID]*models.User{}}
	for _, u := range us {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return utils.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (f *fakeUsers) Update(_ context.Context, id primitive.ObjectID, set bson.M, _ []string) (*models.User, error) {
	f.lastSet = set
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	for k, v := range set {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "role":
			u.Role = v.(models.Role)
		case "isActive":
			u.IsActive = v.(bool)
		case "avatar":
			a := v.(models.Avatar)
			u.Avatar = &a
		}
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.users[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeUsers) List(context.Context, models.UserFilter) ([]*models.User, int64, error) {
	out := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUsers) Summaries(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	out := map[primitive.ObjectID]*models.UserSummary{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = &models.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
		}
	}
	return out, nil
}

func (f *fakeUsers) Stats(context.Context, int64) (*models.UserStats, error) {
	return &models.UserStats{Total: int64(len(f.users))}, nil
}

type fakeRecruiters struct {
	profiles map[primitive.ObjectID]*models.RecruiterProfile
}

func newFakeRecruiters() *fakeRecruiters {
	return &fakeRecruiters{profiles: map[primitive.ObjectID]*models.RecruiterProfile{}}
}

func (f *fakeRecruiters) Create(_ context.Context, p *models.RecruiterProfile) error {
	if _, ok := f.profiles[p.UserID]; ok {
		return utils.ErrDuplicate
	}
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeRecruiters) GetByUserID(_ context.Context, id primitive.ObjectID) (*models.RecruiterProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return p, nil
}

func (f *fakeRecruiters) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.RecruiterProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	if v, ok := set["companyName"].(string); ok {
		p.CompanyName = v
	}
	if v, ok := set["companyWebsite"].(string); ok {
		p.CompanyWebsite = v
	}
	return p, nil
}

func (f *fakeRecruiters) DeleteByUserID(_ context.Context, id primitive.ObjectID) error {
	delete(f.profiles, id)
	return nil
}

type fakeGeocoder struct {
	coords map[string]geocode.Coordinates
	calls  []string
}

func (f *fakeGeocoder) Lookup(_ context.Context, zip string) (geocode.Coordinates, error) {
	f.calls = append(f.calls, zip)
	c, ok := f.coords[zip]
	if !ok {
		return geocode.Coordinates{}, utils.E(utils.CodeNotFound, "fake.Lookup", "no match", nil)
	}
	return c, nil
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []string
}

func (f *fakeScheduler) Schedule(_ context.Context, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduled = append(f.scheduled, userID)
}

type fakeStore struct {
	objects   map[string][]byte
	types     map[string]string
	putErr    error
	deleteErr error
	deleted   []string
	puts      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStore) Put(_ context.Context, key, contentType string, r io.Reader) error {
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = b
	f.types[key] = contentType
	return nil
}

func (f *fakeStore) Open(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), storage.ObjectInfo{Key: key, ContentType: f.types[key], Size: int64(len(b))}, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeStore) List(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

type fakeSigner struct {
	url string
	err error
}

func (f fakeSigner) SignedGetURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url + key, nil
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(context.Context, string, extract.Kind) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeStructurer struct {
	update *models.JobSeekerUpdate
	err    error
	calls  int
}

func (f *fakeStructurer) Structure(context.Context, string) (*models.JobSeekerUpdate, error) {
	f.calls++
	return f.update, f.err
}

type fakeVectorRepo struct {
	docs      map[string]*models.ProfileVector
	deleteErr error
	insertErr error
	deleted   []string
	matches   []models.VectorMatch
}

func newFakeVectorRepo() *fakeVectorRepo {
	return &fakeVectorRepo{docs: map[string]*models.ProfileVector{}}
}

func (f *fakeVectorRepo) Upsert(_ context.Context, v *models.ProfileVector) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for id, d := range f.docs {
		if d.UserID == v.UserID {
			v.ID = id
			break
		}
	}
	f.docs[v.ID] = v
	return nil
}

func (f *fakeVectorRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.docs[id]; !ok {
		return utils.ErrNotFound
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeVectorRepo) DeleteByUserID(_ context.Context, userID string) error {
	for id, d := range f.docs {
		if d.UserID == userID {
			delete(f.docs, id)
		}
	}
	return nil
}

func (f *fakeVectorRepo) Nearest(context.Context, []float32, int) ([]models.VectorMatch, error) {
	return f.matches, nil
}

type fakeEmbedder struct {
	dims int
	err  error
	// during runs inside Embed, mid-sync.
	during func()
}

func (f fakeEmbedder) Embed(context.Context, string, embed.TaskType) ([]float32, error) {
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	return make([]float32, f.dims), nil
}

func (fakeEmbedder) Close() error { return nil }

func newTestWriter(seekers *fakeSeekers, g geocode.Geocoder, sched *fakeScheduler) *SeekerWriter {
	log := logger.Discard()
	return NewSeekerWriter(seekers, NewLocationEnricher(g, log), sched, utils.NewSanitizer(), log)
}

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

func strPtr(s string) *string { return &s }

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
)
