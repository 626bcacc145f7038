package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Kakao endpoints
const (
	KakaoAuthBase = "https://kauth.kakao.com"
	KakaoAPIBase  = "https://kapi.kakao.com"
	KakaoScope    = "profile_nickname"
)

// Kakao logs in through Kakao's REST OAuth flow
type Kakao struct {
	AppKey       string
	ClientSecret string
	RedirectURL  string

	// AuthBase and APIBase default to Kakao's hosts; tests point them elsewhere
	AuthBase   string
	APIBase    string
	HTTPClient *http.Client

	mu          sync.Mutex
	initialized bool
}

// EnsureInitialized checks the configuration and sets defaults. It may be
// called any number of times.
func (k *Kakao) EnsureInitialized() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.initialized {
		return nil // already initialized
	}
	if k.AppKey == "" {
		return fmt.Errorf("kakao: app key is required")
	}
	if k.RedirectURL == "" {
		return fmt.Errorf("kakao: redirect URL is required")
	}
	if k.AuthBase == "" {
		k.AuthBase = KakaoAuthBase
	}
	if k.APIBase == "" {
		k.APIBase = KakaoAPIBase
	}
	if k.HTTPClient == nil {
		k.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	k.initialized = true
	return nil
}

// AuthorizeURL returns Kakao's consent page for the nickname scope
func (k *Kakao) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", k.AppKey)
	q.Set("redirect_uri", k.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", KakaoScope)
	q.Set("state", state)
	return k.authBase() + "/oauth/authorize?" + q.Encode()
}

// Login exchanges code for a token and fetches the user's profile
func (k *Kakao) Login(ctx context.Context, code string) (Profile, error) {
	if err := k.EnsureInitialized(); err != nil {
		return Profile{}, failed("gateway not initialized", err)
	}
	if code == "" {
		return Profile{}, failed("missing authorization code", nil)
	}

	token, err := k.exchange(ctx, code)
	if err != nil {
		return Profile{}, err
	}
	return k.me(ctx, token)
}

type kakaoToken struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (k *Kakao) exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", k.AppKey)
	form.Set("redirect_uri", k.RedirectURL)
	form.Set("code", code)
	if k.ClientSecret != "" {
		form.Set("client_secret", k.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.AuthBase+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", failed("token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	var tok kakaoToken
	status, err := k.do(req, &tok)
	if err != nil {
		return "", failed("token request", err)
	}
	if status != http.StatusOK || tok.AccessToken == "" {
		reason := tok.ErrorDescription
		if reason == "" {
			reason = tok.Error
		}
		if reason == "" {
			reason = "token endpoint returned " + strconv.Itoa(status)
		}
		return "", failed(reason, nil)
	}
	return tok.AccessToken, nil
}

type kakaoUser struct {
	ID         int64 `json:"id"`
	Properties struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
	KakaoAccount struct {
		Profile struct {
			Nickname string `json:"nickname"`
		} `json:"profile"`
	} `json:"kakao_account"`
	Msg  string `json:"msg"`
	Code int    `json:"code"`
}

func (k *Kakao) me(ctx context.Context, accessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, k.APIBase+"/v2/user/me", nil)
	if err != nil {
		return Profile{}, failed("user info request", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var user kakaoUser
	status, err := k.do(req, &user)
	if err != nil {
		return Profile{}, failed("user info request", err)
	}
	if status != http.StatusOK {
		reason := user.Msg
		if reason == "" {
			reason = "user info endpoint returned " + strconv.Itoa(status)
		}
		return Profile{}, failed(reason, nil)
	}

	nickname := user.Properties.Nickname
	if nickname == "" {
		nickname = user.KakaoAccount.Profile.Nickname
	}
	if nickname == "" {
		return Profile{}, failed("profile has no nickname (was profile_nickname consent denied?)", nil)
	}
	return Profile{ID: strconv.FormatInt(user.ID, 10), Nickname: nickname}, nil
}

// do sends req and decodes a JSON body into v whatever the status
func (k *Kakao) do(req *http.Request, v any) (int, error) {
	resp, err := k.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, err
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil && resp.StatusCode == http.StatusOK {
			return resp.StatusCode, errors.New("invalid JSON response")
		}
	}
	return resp.StatusCode, nil
}

func (k *Kakao) authBase() string {
	if k.AuthBase == "" {
		return KakaoAuthBase
	}
	return k.AuthBase
}

// CallbackError turns the error parameters of a provider redirect into an
// *Error, or nil if the redirect carries a code
func CallbackError(q url.Values) error {
	code := q.Get("error")
	if code == "" {
		return nil
	}
	reason := q.Get("error_description")
	if reason == "" {
		reason = code
	}
	if code == "access_denied" {
		reason = "login cancelled: " + reason
	}
	return failed(reason, nil)
}
