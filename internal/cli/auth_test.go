package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer lets the test read command output while the command runs.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

var authURLPattern = regexp.MustCompile(`https://accounts\.example/auth\S+`)

func TestAuth_SavesTokenOnce(t *testing.T) {
	dir := setupEnv(t)

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at","refresh_token":"rt","token_type":"Bearer","expires_in":3600}`)
	}))
	defer tokenSrv.Close()

	tokenPath := filepath.Join(dir, "token.json")
	t.Setenv("OILSAMPLE_SHEETS_TOKEN_FILE", tokenPath)
	t.Setenv(clientSecretEnv, fmt.Sprintf(`{"installed":{"client_id":"c","client_secret":"s",`+
		`"auth_uri":"https://accounts.example/auth","token_uri":%q,"redirect_uris":["http://localhost"]}}`,
		tokenSrv.URL+"/token"))

	out := &lockedBuffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs([]string{"auth"})

	errCh := make(chan error, 1)
	go func() { errCh <- rootCmd.Execute() }()

	var authURL string
	require.Eventually(t, func() bool {
		authURL = authURLPattern.FindString(out.String())
		return authURL != ""
	}, 5*time.Second, 10*time.Millisecond)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	q := u.Query()
	callback := q.Get("redirect_uri") + "?" + url.Values{"state": {q.Get("state")}, "code": {"abc"}}.Encode()

	resp, err := http.Get(callback)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("auth did not finish")
	}

	assert.Equal(t, 1, strings.Count(strings.ToLower(out.String()), "token saved to"))
	data, err := os.ReadFile(tokenPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"refresh_token": "rt"`)
}
