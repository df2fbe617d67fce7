package jwxt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetchGradeList(t *testing.T) {
	var gotCookie string
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/kscj/cjcx_list", r.URL.Path)

		gotCookie = r.Header.Get("cookie")
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"kksj": r.PostForm.Get("kksj"),
			"kcxz": r.PostForm.Get("kcxz"),
			"kcmc": r.PostForm.Get("kcmc"),
			"xsfs": r.PostForm.Get("xsfs"),
		}

		w.Write([]byte(`<table id="dataList"></table>`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	page, err := client.FetchGradeList(ctx, []string{"JSESSIONID=abc", "SERVERID=s1"})
	require.NoError(t, err)
	require.Contains(t, page, "dataList")

	require.Equal(t, "JSESSIONID=abc; SERVERID=s1", gotCookie)
	require.Equal(t, map[string]string{
		"kksj": "",
		"kcxz": "",
		"kcmc": "",
		"xsfs": "all",
	}, gotForm)
}

func TestFetchGradeListBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	_, err = client.FetchGradeList(context.Background(), []string{"JSESSIONID=abc"})
	require.Error(t, err)
}
