package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/oxylize/api/internal/dbx"
	"github.com/oxylize/api/internal/server/models"
	messagesrepo "github.com/oxylize/api/internal/server/repositories/messages"
	postsrepo "github.com/oxylize/api/internal/server/repositories/posts"
	"github.com/oxylize/api/internal/server/repositories/repomanager"
	reviewsrepo "github.com/oxylize/api/internal/server/repositories/reviews"
	threadsrepo "github.com/oxylize/api/internal/server/repositories/threads"
	usersrepo "github.com/oxylize/api/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmailOut *models.User
	byEmailErr error

	byIDOut *models.User
	byIDErr error

	emailTaken    bool
	usernameTaken bool
	takenErr      error

	bumpOut int64
	bumpErr error

	verOut int64
	verErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return u, nil
}
func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return f.byEmailOut, f.byEmailErr
}
func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	return f.byIDOut, f.byIDErr
}
func (f *fakeUsersRepo) EmailTaken(context.Context, string) (bool, error) {
	return f.emailTaken, f.takenErr
}
func (f *fakeUsersRepo) UsernameTaken(context.Context, string) (bool, error) {
	return f.usernameTaken, f.takenErr
}
func (f *fakeUsersRepo) BumpTokenVer(context.Context, string) (int64, error) {
	return f.bumpOut, f.bumpErr
}
func (f *fakeUsersRepo) GetTokenVer(context.Context, string) (int64, error) {
	return f.verOut, f.verErr
}

type fakeThreadsRepo struct {
	createOut *models.Thread
	createErr error

	getOut *models.Thread
	getErr error

	infoOut *models.ThreadInfo
	infoErr error

	listOut []*models.ThreadInfo
	listErr error

	idsOut []string
	idsErr error

	touchErr error
	touched  []string
}

func (f *fakeThreadsRepo) CreateOrGet(context.Context, string, string, string) (*models.Thread, error) {
	return f.createOut, f.createErr
}
func (f *fakeThreadsRepo) Get(context.Context, string, string) (*models.Thread, error) {
	return f.getOut, f.getErr
}
func (f *fakeThreadsRepo) GetInfo(context.Context, string, string) (*models.ThreadInfo, error) {
	return f.infoOut, f.infoErr
}
func (f *fakeThreadsRepo) ListInfosForUser(context.Context, string) ([]*models.ThreadInfo, error) {
	return f.listOut, f.listErr
}
func (f *fakeThreadsRepo) IDsForUser(context.Context, string) ([]string, error) {
	return f.idsOut, f.idsErr
}
func (f *fakeThreadsRepo) Touch(ctx context.Context, threadID string) error {
	f.touched = append(f.touched, threadID)
	return f.touchErr
}

type fakeMessagesRepo struct {
	appendOut *models.Message
	appendErr error

	listOut []*models.MessageInfo
	listErr error

	gotLimit  int
	gotOffset int
}

func (f *fakeMessagesRepo) Append(context.Context, string, string, string) (*models.Message, error) {
	return f.appendOut, f.appendErr
}
func (f *fakeMessagesRepo) List(ctx context.Context, threadID string, limit, offset int) ([]*models.MessageInfo, error) {
	f.gotLimit = limit
	f.gotOffset = offset
	return f.listOut, f.listErr
}

type fakePostsRepo struct {
	createOut *models.Post
	createErr error

	byIDOut *models.Post
	byIDErr error

	listOut []*models.Post
	listErr error

	updateOut *models.Post
	updateErr error

	deleteErr error

	gotLimit  int
	gotOffset int
}

func (f *fakePostsRepo) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return p, nil
}
func (f *fakePostsRepo) GetByID(context.Context, string) (*models.Post, error) {
	return f.byIDOut, f.byIDErr
}
func (f *fakePostsRepo) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	f.gotLimit = limit
	f.gotOffset = offset
	return f.listOut, f.listErr
}
func (f *fakePostsRepo) Update(context.Context, string, postsrepo.PostUpdate) (*models.Post, error) {
	return f.updateOut, f.updateErr
}
func (f *fakePostsRepo) Delete(context.Context, string) error {
	return f.deleteErr
}

type fakeReviewsRepo struct {
	createOut *models.Review
	createErr error

	exists    bool
	existsErr error

	listOut []*models.Review
	listErr error

	gotFilter reviewsrepo.ListFilter
}

func (f *fakeReviewsRepo) Create(ctx context.Context, r *models.Review) (*models.Review, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	return r, nil
}
func (f *fakeReviewsRepo) Exists(context.Context, string, string, string, string) (bool, error) {
	return f.exists, f.existsErr
}
func (f *fakeReviewsRepo) List(ctx context.Context, filter reviewsrepo.ListFilter) ([]*models.Review, error) {
	f.gotFilter = filter
	return f.listOut, f.listErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	p  *fakePostsRepo
	r  *fakeReviewsRepo
	t  *fakeThreadsRepo
	ms *fakeMessagesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Posts(db dbx.DBTX) postsrepo.Repository       { return m.p }
func (m *fakeRepoManager) Reviews(db dbx.DBTX) reviewsrepo.Repository   { return m.r }
func (m *fakeRepoManager) Threads(db dbx.DBTX) threadsrepo.Repository   { return m.t }
func (m *fakeRepoManager) Messages(db dbx.DBTX) messagesrepo.Repository { return m.ms }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
