package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ursmart/webapp/internal/app/models"
	"github.com/ursmart/webapp/internal/app/session"
	"github.com/ursmart/webapp/internal/app/state"
	"github.com/ursmart/webapp/internal/middleware"
	"github.com/ursmart/webapp/internal/pkg/apperrors"
	"github.com/ursmart/webapp/internal/web"
)

// fakeGateway implements every gateway interface through function fields so
// each test wires only what it exercises. Unset methods return zero values.
type fakeGateway struct {
	searchFn func(query string) ([]models.Course, error)
	createFn func(payload models.MaterialPayload) (models.Material, error)
	listFn   func(courseID int64) ([]models.Material, error)
	updateFn func(materialID int64, payload models.MaterialPayload) (models.Material, error)
	deleteFn func(materialID int64) error
	chatFn   func(req models.ChatRequest) (models.ChatResponse, error)
	userFn   func() (models.UserProfile, error)

	searches atomic.Int64
	creates  atomic.Int64
	uploads  atomic.Int64
	chats    atomic.Int64
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (models.TokenResponse, error) {
	return models.TokenResponse{AccessToken: "tok-test", TokenType: "bearer"}, nil
}

func (f *fakeGateway) Register(ctx context.Context, name, email, password string) (models.UserProfile, error) {
	return models.UserProfile{ID: 1, Name: name, Email: email}, nil
}

func (f *fakeGateway) CurrentUser(ctx context.Context, token string) (models.UserProfile, error) {
	if f.userFn != nil {
		return f.userFn()
	}
	return models.UserProfile{ID: 1, Name: "Ann"}, nil
}

func (f *fakeGateway) SearchCourses(ctx context.Context, token, query string) ([]models.Course, error) {
	f.searches.Add(1)
	if f.searchFn != nil {
		return f.searchFn(query)
	}
	return nil, nil
}

func (f *fakeGateway) ListCourses(ctx context.Context, token string) ([]models.Course, error) {
	return f.SearchCourses(ctx, token, "")
}

func (f *fakeGateway) CreateMaterial(ctx context.Context, token string, payload models.MaterialPayload) (models.Material, error) {
	f.creates.Add(1)
	if f.createFn != nil {
		return f.createFn(payload)
	}
	return models.Material{}, nil
}

func (f *fakeGateway) MaterialsByCourse(ctx context.Context, token string, courseID int64) ([]models.Material, error) {
	if f.listFn != nil {
		return f.listFn(courseID)
	}
	return nil, nil
}

func (f *fakeGateway) Material(ctx context.Context, token string, materialID int64) (models.Material, error) {
	return models.Material{ID: materialID}, nil
}

func (f *fakeGateway) UpdateMaterial(ctx context.Context, token string, materialID int64, payload models.MaterialPayload) (models.Material, error) {
	if f.updateFn != nil {
		return f.updateFn(materialID, payload)
	}
	return models.Material{ID: materialID, Score: payload.Score}, nil
}

func (f *fakeGateway) DeleteMaterial(ctx context.Context, token string, materialID int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(materialID)
	}
	return nil
}

func (f *fakeGateway) UploadFile(ctx context.Context, token string, materialID int64, filename string, file io.Reader) (models.Material, error) {
	f.uploads.Add(1)
	return models.Material{ID: materialID, FileLink: "/uploads/" + filename}, nil
}

func (f *fakeGateway) Chat(ctx context.Context, token string, req models.ChatRequest) (models.ChatResponse, error) {
	f.chats.Add(1)
	if f.chatFn != nil {
		return f.chatFn(req)
	}
	return models.ChatResponse{Response: "ok"}, nil
}

type fixture struct {
	gw      *fakeGateway
	session *session.Store
	state   *state.AppState
	router  *gin.Engine
}

func newFixture(t *testing.T, loggedIn bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidations())

	gw := &fakeGateway{}
	storage := session.NewFileTokenStorage(filepath.Join(t.TempDir(), "token"))
	sess := session.NewStore(gw, gw, storage, zerolog.Nop())
	if loggedIn {
		require.NoError(t, sess.Login(context.Background(), "ann@x.edu", "pw"))
	}
	st := state.New()

	lgr := zerolog.Nop()
	courses := NewCourseController(sess, st, gw, gw, lgr)
	materials := NewMaterialController(sess, st, gw, gw, time.Millisecond, 10, lgr)
	chat := NewChatController(sess, st, gw, lgr)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.POST("/search", courses.Search)
	router.GET("/courses/:id", courses.Show)
	router.POST("/courses/:id/materials", materials.Create)
	router.POST("/courses/:id/chat", chat.Send)
	router.POST("/materials/:id/vote", materials.Vote)
	router.POST("/materials/:id/delete", materials.Delete)

	return &fixture{gw: gw, session: sess, state: st, router: router}
}

func (f *fixture) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestSearchRequiresLoginWithoutNetworkCall(t *testing.T) {
	f := newFixture(t, false)

	w := f.postForm("/search", url.Values{"q": {"calculus"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/app", w.Header().Get("Location"))
	assert.Equal(t, "Please login to search courses", f.state.SearchError())
	assert.EqualValues(t, 0, f.gw.searches.Load())
}

func TestSearchReplacesCourseListAndClosesDetailView(t *testing.T) {
	f := newFixture(t, true)
	f.state.SetCourses([]models.Course{{ID: 1, Code: "CS101"}})
	f.state.SelectCourse(models.Course{ID: 1, Code: "CS101"})
	f.gw.searchFn = func(query string) ([]models.Course, error) {
		assert.Equal(t, "algebra", query)
		return []models.Course{{ID: 2, Code: "MATH201", Name: "Linear Algebra"}}, nil
	}

	w := f.postForm("/search", url.Values{"q": {"algebra"}})

	assert.Equal(t, http.StatusFound, w.Code)
	courses, searched := f.state.Courses()
	require.Len(t, courses, 1)
	assert.Equal(t, "MATH201", courses[0].Code)
	assert.True(t, searched)
	assert.Nil(t, f.state.SelectedCourse())
}

func TestSearchFailureShowsBackendDetail(t *testing.T) {
	f := newFixture(t, true)
	f.gw.searchFn = func(string) ([]models.Course, error) {
		return nil, apperrors.NewAPIError("search courses", http.StatusBadGateway, "Search failed")
	}

	f.postForm("/search", url.Values{"q": {"x"}})

	assert.Equal(t, "Search failed", f.state.SearchError())
}

func TestShowRendersOpenCourseWithMaterials(t *testing.T) {
	f := newFixture(t, true)
	f.state.SetCourses([]models.Course{{ID: 5, Code: "CS101", Name: "Intro to CS"}})
	f.gw.listFn = func(courseID int64) ([]models.Material, error) {
		assert.Equal(t, int64(5), courseID)
		return []models.Material{{ID: 10, CourseID: 5, Title: "Week 1 Notes", Type: models.MaterialTypeNotes}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/courses/5", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CS101")
	assert.Contains(t, w.Body.String(), "Week 1 Notes")
	require.NotNil(t, f.state.SelectedCourse())
	assert.Equal(t, int64(5), f.state.SelectedCourse().ID)
}

func TestShowUnknownCourseRedirectsWithNotice(t *testing.T) {
	f := newFixture(t, true)
	f.state.SetCourses([]models.Course{{ID: 1}})

	req := httptest.NewRequest(http.MethodGet, "/courses/99", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/app", w.Header().Get("Location"))
	assert.Equal(t, "Course not found", f.state.TakeNotice())
}

func TestCreateMaterialReloadsListAndSchedulesKarmaToast(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})
	f.gw.createFn = func(payload models.MaterialPayload) (models.Material, error) {
		assert.Equal(t, int64(5), payload.CourseID)
		assert.Equal(t, "Midterm 2023", payload.Title)
		assert.Equal(t, models.MaterialTypeExam, payload.Type)
		assert.Zero(t, payload.Score)
		assert.False(t, payload.Role)
		return models.Material{ID: 42, CourseID: 5, Title: payload.Title}, nil
	}
	f.gw.listFn = func(int64) ([]models.Material, error) {
		return []models.Material{{ID: 42, CourseID: 5, Title: "Midterm 2023"}}, nil
	}
	f.gw.userFn = func() (models.UserProfile, error) {
		return models.UserProfile{ID: 1, Karma: 60}, nil
	}

	w := f.postForm("/courses/5/materials", url.Values{
		"title":       {"Midterm 2023"},
		"description": {"Past exam with solutions"},
		"type":        {"2"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/courses/5", w.Header().Get("Location"))
	assert.EqualValues(t, 1, f.gw.creates.Load())
	assert.EqualValues(t, 0, f.gw.uploads.Load(), "no file attached, no upload call")
	assert.Len(t, f.state.Materials(), 1)

	var alert *state.KarmaAlert
	require.Eventually(t, func() bool {
		alert = f.state.TakeKarmaAlert()
		return alert != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 10, alert.Karma)
	assert.Equal(t, session.LevelStudent, alert.Level)
}

func TestCreateMaterialRejectsBlankForm(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})

	w := f.postForm("/courses/5/materials", url.Values{"title": {""}, "description": {""}})

	assert.Equal(t, "/courses/5?form=1", w.Header().Get("Location"))
	assert.Equal(t, "Title and description are required", f.state.TakeNotice())
	assert.EqualValues(t, 0, f.gw.creates.Load())
}

func TestVoteSendsFullRecordAndAppliesServerResponse(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})
	f.state.SetMaterials([]models.Material{{ID: 10, CourseID: 5, Title: "Notes", Score: 2}})
	f.gw.updateFn = func(materialID int64, payload models.MaterialPayload) (models.Material, error) {
		assert.Equal(t, int64(10), materialID)
		assert.Equal(t, 3, payload.Score)
		assert.Equal(t, "Notes", payload.Title)
		return models.Material{ID: 10, CourseID: 5, Title: "Notes", Score: 3}, nil
	}

	w := f.postForm("/materials/10/vote", url.Values{"dir": {"up"}})

	assert.Equal(t, "/courses/5", w.Header().Get("Location"))
	m, ok := f.state.FindMaterial(10)
	require.True(t, ok)
	assert.Equal(t, 3, m.Score)
}

func TestDownvoteAtZeroClampsScore(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})
	f.state.SetMaterials([]models.Material{{ID: 10, CourseID: 5, Score: 0}})

	var sent models.MaterialPayload
	f.gw.updateFn = func(_ int64, payload models.MaterialPayload) (models.Material, error) {
		sent = payload
		return models.Material{ID: 10, CourseID: 5, Score: payload.Score}, nil
	}

	f.postForm("/materials/10/vote", url.Values{"dir": {"down"}})

	assert.Equal(t, 0, sent.Score)
	m, _ := f.state.FindMaterial(10)
	assert.Equal(t, 0, m.Score)
}

func TestVoteFailureKeepsLocalScore(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})
	f.state.SetMaterials([]models.Material{{ID: 10, CourseID: 5, Score: 2}})
	f.gw.updateFn = func(int64, models.MaterialPayload) (models.Material, error) {
		return models.Material{}, apperrors.NewAPIError("update material", http.StatusInternalServerError, "Failed to update score")
	}

	f.postForm("/materials/10/vote", url.Values{"dir": {"up"}})

	m, _ := f.state.FindMaterial(10)
	assert.Equal(t, 2, m.Score)
	assert.Equal(t, "Failed to upvote: Failed to update score", f.state.TakeNotice())
}

func TestDeleteReloadsMaterialList(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})
	f.state.SetMaterials([]models.Material{{ID: 10, CourseID: 5}, {ID: 11, CourseID: 5}})

	var deleted int64
	f.gw.deleteFn = func(materialID int64) error {
		deleted = materialID
		return nil
	}
	f.gw.listFn = func(int64) ([]models.Material, error) {
		return []models.Material{{ID: 11, CourseID: 5}}, nil
	}

	w := f.postForm("/materials/10/delete", nil)

	assert.Equal(t, "/courses/5", w.Header().Get("Location"))
	assert.Equal(t, int64(10), deleted)
	assert.Len(t, f.state.Materials(), 1)
}

func TestChatRequiresSelectionAndMessage(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})

	// No materials selected
	f.postForm("/courses/5/chat", url.Values{"message": {"explain recursion"}})
	assert.Equal(t, "Please select materials and enter a message", f.state.TakeNotice())

	// Whitespace-only message
	f.state.ToggleChatMaterial(10)
	f.postForm("/courses/5/chat", url.Values{"message": {"   "}})
	assert.Equal(t, "Please select materials and enter a message", f.state.TakeNotice())

	assert.EqualValues(t, 0, f.gw.chats.Load())
	assert.Empty(t, f.state.ChatHistory())
}

func TestChatAppendsBothTurnsOnSuccess(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})
	f.state.ToggleChatMaterial(10)
	f.state.ToggleChatMaterial(12)
	f.gw.chatFn = func(req models.ChatRequest) (models.ChatResponse, error) {
		assert.Equal(t, int64(5), req.CourseID)
		assert.Equal(t, []int64{10, 12}, req.MaterialIDs)
		assert.Equal(t, "explain recursion", req.Message)
		return models.ChatResponse{Response: "Recursion is ..."}, nil
	}

	w := f.postForm("/courses/5/chat", url.Values{"message": {"explain recursion"}})

	assert.Equal(t, "/courses/5?tab=chat", w.Header().Get("Location"))
	history := f.state.ChatHistory()
	require.Len(t, history, 2)
	assert.Equal(t, models.ChatRoleUser, history[0].Role)
	assert.Equal(t, "explain recursion", history[0].Content)
	assert.Equal(t, models.ChatRoleAssistant, history[1].Role)
	assert.Equal(t, "Recursion is ...", history[1].Content)
}

func TestChatFailureRollsBackOptimisticTurn(t *testing.T) {
	f := newFixture(t, true)
	f.state.SelectCourse(models.Course{ID: 5})
	f.state.ToggleChatMaterial(10)
	f.state.AppendChatTurn(models.ChatTurn{Role: models.ChatRoleUser, Content: "earlier"})
	f.state.AppendChatTurn(models.ChatTurn{Role: models.ChatRoleAssistant, Content: "earlier answer"})
	f.gw.chatFn = func(models.ChatRequest) (models.ChatResponse, error) {
		return models.ChatResponse{}, apperrors.NewAPIError("chat", http.StatusServiceUnavailable, "Chat failed")
	}

	f.postForm("/courses/5/chat", url.Values{"message": {"and then?"}})

	history := f.state.ChatHistory()
	require.Len(t, history, 2, "failed turn must be removed")
	assert.Equal(t, "earlier answer", history[1].Content)
	assert.Equal(t, "Chat failed: Chat failed", f.state.TakeNotice())
}
