package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Vaidehi-Hirani/ToDo/internal/adapters/transport/http/dto"
)

const (
	DefaultRenewPath = "/api/users/refresh-token"
	renewTimeout     = 10 * time.Second
)

var (
	ErrNoRefreshToken = errors.New("no refresh token available")
	ErrRenewalFailed  = errors.New("session renewal failed")
)

// Transport attaches the session's access token to every request. A 401 is
// answered by renewing the session once and resending the request once;
// when that is impossible or fails the session is discarded.
type Transport struct {
	Base     http.RoundTripper
	Store    SessionStore
	Notifier Notifier
	Logger   *zap.Logger

	// RenewURL is the absolute renewal endpoint. When empty it is derived
	// from each request's scheme and host plus DefaultRenewPath.
	RenewURL string

	renewals singleflight.Group
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) notifier() Notifier {
	if t.Notifier != nil {
		return t.Notifier
	}
	return NotifierFuncs{}
}

func (t *Transport) log() *zap.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return zap.NewNop()
}

func (t *Transport) renewURL(req *http.Request) string {
	if t.RenewURL != "" {
		return t.RenewURL
	}
	u := url.URL{Scheme: req.URL.Scheme, Host: req.URL.Host, Path: DefaultRenewPath}
	return u.String()
}

// isRenewal reports whether req targets the renewal endpoint, ignoring query
// and fragment.
func (t *Transport) isRenewal(req *http.Request) bool {
	u := *req.URL
	u.RawQuery, u.Fragment, u.RawFragment = "", "", ""
	return strings.TrimRight(u.String(), "/") == strings.TrimRight(t.renewURL(req), "/")
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	sess, err := t.Store.Load()
	if err != nil {
		return nil, err
	}

	resp, err := t.send(req, sess.AccessToken)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// the renewal endpoint never triggers another renewal
	if t.isRenewal(req) {
		return resp, nil
	}
	if sess.RefreshToken == "" {
		t.logout("unauthorized without refresh token")
		return resp, nil
	}
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		t.log().Warn("request body cannot be replayed, not retrying", zap.String("path", req.URL.Path))
		return resp, nil
	}

	// keep the 401 readable for the caller in case renewal fails
	if err := bufferBody(resp); err != nil {
		return nil, err
	}

	next, err := t.renew(req, sess)
	if err != nil {
		t.log().Info("session renewal failed", zap.Error(err))
		t.logout("renewal failed")
		return resp, nil
	}
	_ = resp.Body.Close()

	retry, err := replay(req)
	if err != nil {
		return nil, err
	}
	resp, err = t.send(retry, next.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		t.logout("unauthorized after renewal")
	}
	return resp, nil
}

// send issues one attempt and reports the outcomes callers get notified about.
func (t *Transport) send(req *http.Request, accessToken string) (*http.Response, error) {
	out := req.Clone(req.Context())
	if accessToken != "" {
		out.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := t.base().RoundTrip(out)
	if err != nil {
		t.notifier().Unreachable(err)
		return nil, err
	}
	if resp.StatusCode == http.StatusForbidden {
		t.notifier().PermissionDenied(req)
	}
	return resp, nil
}

// renew exchanges the session's pair for a new one. Concurrent callers
// holding the same refresh token share a single renewal request.
func (t *Transport) renew(req *http.Request, sess Session) (Session, error) {
	v, err, _ := t.renewals.Do(sess.RefreshToken, func() (any, error) {
		// another request may have rotated the pair already
		current, err := t.Store.Load()
		if err != nil {
			return Session{}, err
		}
		if current.RefreshToken != "" && current.RefreshToken != sess.RefreshToken {
			return current, nil
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(req.Context()), renewTimeout)
		defer cancel()
		next, err := t.requestRenewal(ctx, req, sess)
		if err != nil {
			return Session{}, err
		}
		if err := t.Store.Save(next); err != nil {
			return Session{}, err
		}
		return next, nil
	})
	if err != nil {
		return Session{}, err
	}
	return v.(Session), nil
}

func (t *Transport) requestRenewal(ctx context.Context, orig *http.Request, sess Session) (Session, error) {
	body, err := json.Marshal(dto.RefreshDTO{Token: sess.AccessToken, RefreshToken: sess.RefreshToken})
	if err != nil {
		return Session{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.renewURL(orig), bytes.NewReader(body))
	if err != nil {
		return Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrRenewalFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return Session{}, fmt.Errorf("%w: status %d", ErrRenewalFailed, resp.StatusCode)
	}

	var pair dto.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrRenewalFailed, err)
	}
	if pair.Token == "" || pair.RefreshToken == "" {
		return Session{}, fmt.Errorf("%w: empty token pair", ErrRenewalFailed)
	}
	return sessionFrom(pair), nil
}

func (t *Transport) logout(reason string) {
	if err := t.Store.Clear(); err != nil {
		t.log().Error("clear session", zap.Error(err))
	}
	t.log().Info("session discarded", zap.String("reason", reason))
	t.notifier().LoggedOut()
}

func replay(req *http.Request) (*http.Request, error) {
	out := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		out.Body = body
	}
	return out, nil
}

func bufferBody(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return err
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return nil
}

func sessionFrom(pair dto.TokenResponse) Session {
	return Session{
		AccessToken:  pair.Token,
		RefreshToken: pair.RefreshToken,
		UserID:       pair.ID,
		Name:         pair.Name,
		Email:        pair.Email,
	}
}
