package jwt

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"GroupLink/internal/config"
	"GroupLink/pkg/back"
	"GroupLink/pkg/util/myjwt"
	"GroupLink/pkg/xerr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newEngine(conf config.JwtConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", Auth(conf), func(c *gin.Context) {
		back.Success(c, gin.H{"user_id": UserID(c)})
	})
	return r
}

func TestAuth(t *testing.T) {
	conf := config.JwtConfig{Key: "k"}
	r := newEngine(conf)
	token, err := myjwt.GenerateToken(conf, 42, "neo")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", xerr.Unauthorized},
		{"bad scheme", "Token " + token, xerr.Unauthorized},
		{"bad token", "Bearer nope", xerr.Unauthorized},
		{"ok", "Bearer " + token, xerr.OK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			var resp struct {
				Code int `json:"code"`
				Data struct {
					UserID int64 `json:"user_id"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Equal(t, tc.code, resp.Code)
			if tc.code == xerr.OK {
				require.Equal(t, int64(42), resp.Data.UserID)
			}
		})
	}
}
