package gradewatch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gradewatch-backend/lib/testutil"
	"gradewatch-backend/services/gradewatch/db"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupIntake(t *testing.T) (*gin.Engine, Store, func()) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/gradewatch",
		DbSchema: db.Schema,
	})

	store := NewStore(result.DB)
	service := NewService(ServiceOptions{
		Store:    store,
		Fetcher:  &fakeFetcher{},
		Notifier: &fakeNotifier{},
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	service.RegisterRoutes(router)
	return router, store, cleanup
}

func postJson(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("content-type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestRegister(t *testing.T) {
	router, store, cleanup := setupIntake(t)
	defer cleanup()

	res := postJson(router, "/v1/register", `{
		"identity": "student",
		"token": "device-token",
		"cookies": ["JSESSIONID=abc"],
		"platform": "android"
	}`)
	require.Equal(t, http.StatusOK, res.Code)

	rec, err := store.Get(context.Background(), "student")
	require.NoError(t, err)
	require.Equal(t, "device-token", rec.Token)
	require.Equal(t, []string{"JSESSIONID=abc"}, rec.Cookies)
	require.Equal(t, "android", rec.Platform)
}

func TestRegisterValidation(t *testing.T) {
	router, _, cleanup := setupIntake(t)
	defer cleanup()

	cases := []string{
		`{}`,
		`{"identity": "student"}`,
		`{"identity": "student", "token": "device-token"}`,
		`{"identity": "student", "token": "device-token", "cookies": []}`,
		`{"token": "device-token", "cookies": ["JSESSIONID=abc"]}`,
		`not json`,
	}
	for _, body := range cases {
		res := postJson(router, "/v1/register", body)
		require.Equal(t, http.StatusBadRequest, res.Code, "body: %s", body)
	}
}

func TestReRegisterReplacesCookiesKeepsSignatures(t *testing.T) {
	router, store, cleanup := setupIntake(t)
	defer cleanup()

	ctx := context.Background()

	res := postJson(router, "/v1/register", `{
		"identity": "student",
		"token": "device-token",
		"cookies": ["JSESSIONID=old"]
	}`)
	require.Equal(t, http.StatusOK, res.Code)
	require.NoError(t, store.RecordCheck(ctx, "student", []string{"101|90"}, time.Now()))

	res = postJson(router, "/v1/register", `{
		"identity": "student",
		"token": "device-token-2",
		"cookies": ["JSESSIONID=new", "SERVERID=s2"]
	}`)
	require.Equal(t, http.StatusOK, res.Code)

	rec, err := store.Get(ctx, "student")
	require.NoError(t, err)
	require.Equal(t, "device-token-2", rec.Token)
	// cookies replaced wholesale, never merged
	require.Equal(t, []string{"JSESSIONID=new", "SERVERID=s2"}, rec.Cookies)
	// prior observations survive re-registration
	require.Equal(t, []string{"101|90"}, rec.Signatures)
}

func TestUnregister(t *testing.T) {
	router, store, cleanup := setupIntake(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Upsert(ctx, "student1", "shared-token", []string{"a=1"}, "android"))
	require.NoError(t, store.Upsert(ctx, "student2", "shared-token", []string{"b=2"}, "android"))
	require.NoError(t, store.Upsert(ctx, "student3", "other-token", []string{"c=3"}, "ios"))

	res := postJson(router, "/v1/unregister", `{"token": "shared-token"}`)
	require.Equal(t, http.StatusOK, res.Code)

	for _, identity := range []string{"student1", "student2"} {
		rec, err := store.Get(ctx, identity)
		require.NoError(t, err)
		require.Empty(t, rec.Token)
		// record itself survives, only the token is nulled
		require.NotEmpty(t, rec.Cookies)
	}

	rec, err := store.Get(ctx, "student3")
	require.NoError(t, err)
	require.Equal(t, "other-token", rec.Token)

	// idempotent, unknown token is a no-op
	res = postJson(router, "/v1/unregister", `{"token": "shared-token"}`)
	require.Equal(t, http.StatusOK, res.Code)
}

func TestUnregisterValidation(t *testing.T) {
	router, _, cleanup := setupIntake(t)
	defer cleanup()

	res := postJson(router, "/v1/unregister", `{}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
}
