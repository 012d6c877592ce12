package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lineup-backend/internal/catalog"
	"github.com/DoyleJ11/lineup-backend/internal/engine"
	"github.com/DoyleJ11/lineup-backend/internal/hub"
	"github.com/DoyleJ11/lineup-backend/internal/persist"
	"github.com/DoyleJ11/lineup-backend/internal/reconcile"
	"github.com/DoyleJ11/lineup-backend/internal/saved"
	"github.com/DoyleJ11/lineup-backend/internal/session"
	"github.com/DoyleJ11/lineup-backend/internal/snapshot"
	"github.com/DoyleJ11/lineup-backend/internal/types"
)

var (
	errSessionNotFound = errors.New("session not found")
	errSessionClosed   = errors.New("session closed")
	errBadJSON         = errors.New("bad json")
)

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

func CreateSession(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var code string
		for {
			c, err := GenerateCode()
			if err != nil {
				http.Error(w, "failed to generate code", http.StatusInternalServerError)
				return
			}
			reply := make(chan *session.Session, 1)
			h.Inbox() <- hub.GetSession{Code: c, Reply: reply}
			if <-reply == nil {
				code = c
				break
			}
			log.Debug("collision on code, regenerating", zap.String("code", c))
		}

		reply := make(chan *session.Session, 1)
		h.Inbox() <- hub.EnsureSession{Code: code, Reply: reply}
		if <-reply == nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: code})
	}
}

func GetSession(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(h, chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		v, err := ask(r.Context(), sess, func(reply chan session.View) session.Msg {
			return session.GetState{Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// PostCommand applies one command and answers with the resulting view.
func PostCommand(h *hub.Hub, cat catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(h, chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		var cm types.ClientMessage
		if err := json.NewDecoder(r.Body).Decode(&cm); err != nil {
			writeError(w, errBadJSON)
			return
		}
		cmd, err := types.ToCommand(cm, cat)
		if err != nil {
			writeError(w, err)
			return
		}

		cmdErr, err := ask(r.Context(), sess, func(reply chan error) session.Msg {
			return session.FromClient{Cmd: cmd, TeamName: cm.TeamName, Reply: reply}
		})
		if err == nil {
			err = cmdErr
		}
		if err != nil {
			writeError(w, err)
			return
		}

		v, err := ask(r.Context(), sess, func(reply chan session.View) session.Msg {
			return session.GetState{Reply: reply}
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// GetDiff previews a load. The optional roster query is a comma separated
// list of available player ids.
func GetDiff(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(h, chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		var roster []string
		if raw := r.URL.Query().Get("roster"); raw != "" {
			roster = strings.Split(raw, ",")
		}
		res, err := ask(r.Context(), sess, func(reply chan session.DiffResult) session.Msg {
			return session.Diff{SavedID: chi.URLParam(r, "id"), Roster: roster, Reply: reply}
		})
		if err == nil {
			err = res.Err
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			snapshot.Diff
			HasDifferences bool `json:"hasDifferences"`
		}{res.Diff, res.Diff.HasDifferences()})
	}
}

func PostLoad(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(h, chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		var opts reconcile.Options
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
				writeError(w, errBadJSON)
				return
			}
		}
		res, err := ask(r.Context(), sess, func(reply chan session.LoadResult) session.Msg {
			return session.Load{SavedID: chi.URLParam(r, "id"), Options: opts, Reply: reply}
		})
		if err == nil {
			err = res.Err
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res.Result)
	}
}

type saveRequest struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
	AsNew bool   `json:"asNew"`
}

func PostSave(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := lookup(h, chi.URLParam(r, "code"))
		if err != nil {
			writeError(w, err)
			return
		}
		var req saveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errBadJSON)
			return
		}
		res, err := ask(r.Context(), sess, func(reply chan session.SaveResult) session.Msg {
			return session.Save{Name: req.Name, Notes: req.Notes, AsNew: req.AsNew, Reply: reply}
		})
		if err == nil {
			err = res.Err
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res.Saved)
	}
}

func ListFormations(cat catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cat.List())
	}
}

func ListLineups(lib *saved.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := lib.List(r.Context(), saved.ListOptions{
			Query:         q.Get("q"),
			TeamName:      q.Get("team"),
			FormationCode: q.Get("formation"),
			Sort:          saved.SortOrder(q.Get("sort")),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func GetLineup(lib *saved.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := lib.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

type patchRequest struct {
	Name  *string `json:"name"`
	Notes *string `json:"notes"`
}

func PatchLineup(lib *saved.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errBadJSON)
			return
		}
		l, err := lib.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if req.Name != nil {
			l.Name = strings.TrimSpace(*req.Name)
		}
		if req.Notes != nil {
			l.Notes = *req.Notes
		}
		l, err = lib.Update(r.Context(), l)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, l)
	}
}

func DuplicateLineup(lib *saved.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l, err := lib.Duplicate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, l)
	}
}

func DeleteLineup(lib *saved.Library) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := lib.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func lookup(h *hub.Hub, code string) (*session.Session, error) {
	reply := make(chan *session.Session, 1)
	h.Inbox() <- hub.GetSession{Code: code, Reply: reply}
	sess := <-reply
	if sess == nil {
		return nil, errSessionNotFound
	}
	return sess, nil
}

// ask sends the message built by mk to sess and waits for its reply.
func ask[T any](ctx context.Context, sess *session.Session, mk func(chan T) session.Msg) (T, error) {
	var zero T
	reply := make(chan T, 1)
	select {
	case sess.Inbox() <- mk(reply):
	case <-sess.Done():
		return zero, errSessionClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case v := <-reply:
		return v, nil
	case <-sess.Done():
		return zero, errSessionClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadJSON):
		return http.StatusBadRequest
	case errors.Is(err, errSessionNotFound), errors.Is(err, errSessionClosed), errors.Is(err, saved.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrBenchOverflow):
		return http.StatusConflict
	case errors.Is(err, persist.ErrStorageFull):
		return http.StatusInsufficientStorage
	case errors.Is(err, engine.ErrInvalidSlot), errors.Is(err, engine.ErrInvalidIndex),
		errors.Is(err, engine.ErrInvalidRole), errors.Is(err, engine.ErrEmptyPlayer),
		errors.Is(err, engine.ErrUnsupportedCommand), errors.Is(err, types.ErrUnknownType),
		errors.Is(err, types.ErrUnknownFormation), errors.Is(err, reconcile.ErrUnknownFormation),
		errors.Is(err, saved.ErrEmptyName), errors.Is(err, session.ErrNoLineup):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), struct {
		Error string `json:"error"`
	}{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
