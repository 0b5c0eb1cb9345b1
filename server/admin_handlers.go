package server

import (
	"net/http"

	"github.com/jrsteele09/arcash/model"
	"github.com/jrsteele09/arcash/users"
)

// AdminUsersListHandler returns every user ordered by join date.
func (s *Server) AdminUsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.auth.ListUsers()
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, mapSlice(list, (*users.User).ToModel))
	}
}

func (s *Server) AdminUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := s.auth.User(r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user.ToModel())
	}
}

func (s *Server) AdminUpdateUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update model.AdminUserUpdate
		if err := decodeJSON(w, r, &update); err != nil {
			writeError(w, r, err)
			return
		}
		user, err := s.auth.AdminUpdateUser(r.PathValue("id"), update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user.ToModel())
	}
}
