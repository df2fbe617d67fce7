package jwxt

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const loginSessionCookie = "JSESSIONID=8D9D3A1B2C"

func loginTestServer(t *testing.T, loginHandler http.HandlerFunc) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/framework/xsMain.jsp", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "8D9D3A1B2C", Path: "/"})
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/verifycode.servlet", func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.Header.Get("Cookie"), loginSessionCookie)
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	})
	mux.HandleFunc("/xk/LoginToXkLdap", loginHandler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLoginSuccess(t *testing.T) {
	var gotForm map[string]string
	server := loginTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Contains(t, r.Header.Get("Cookie"), loginSessionCookie)
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"userAccount":  r.PostForm.Get("userAccount"),
			"userPassword": r.PostForm.Get("userPassword"),
			"RANDOMCODE":   r.PostForm.Get("RANDOMCODE"),
			"encoded":      r.PostForm.Get("encoded"),
		}
		w.Write([]byte(`<html><script>window.location.href="/framework/xsMain.jsp"</script></html>`))
	})

	client, err := NewLoginClient(context.Background(), ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	captcha, err := client.Captcha(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg-bytes"), captcha)

	err = client.Login(context.Background(), "20231234", "hunter2", "ab3d")
	require.NoError(t, err)

	wantEncoded := base64.StdEncoding.EncodeToString([]byte("20231234")) +
		"%%%" +
		base64.StdEncoding.EncodeToString([]byte("hunter2"))
	require.Equal(t, map[string]string{
		"userAccount":  "",
		"userPassword": "",
		"RANDOMCODE":   "ab3d",
		"encoded":      wantEncoded,
	}, gotForm)

	require.Contains(t, client.Cookies(), loginSessionCookie)
}

func TestLoginRejected(t *testing.T) {
	server := loginTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><script>alert('验证码错误!!\n')</script></html>`))
	})

	client, err := NewLoginClient(context.Background(), ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	err = client.Login(context.Background(), "20231234", "hunter2", "nope")
	require.ErrorIs(t, err, LoginFailed)
	require.Contains(t, err.Error(), "验证码错误!!")
}

func TestLoginRejectedWithoutAlert(t *testing.T) {
	server := loginTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><form action="LoginToXkLdap"></form></html>`))
	})

	client, err := NewLoginClient(context.Background(), ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)

	err = client.Login(context.Background(), "20231234", "hunter2", "ab3d")
	require.ErrorIs(t, err, LoginFailed)
}

func TestExtractAlert(t *testing.T) {
	require.Equal(t, "", extractAlert("<html>no alerts here</html>"))
	require.Equal(t, "wrong captcha", extractAlert(`alert("wrong captcha")`))
	require.Equal(t, `user "x" not found`, extractAlert(`alert('user \"x\" not found\n')`))
}
