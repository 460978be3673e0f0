package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"helplink/internal/domain"
	"helplink/internal/service"
	"helplink/internal/storage"
)

type registerRequest struct {
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	Address     *string `json:"address"`
	Age         *int    `json:"age"`
	Number      *string `json:"number"`
	AccountType string  `json:"account_type"`
}

func handleRegister(authSvc *service.AuthService, store storage.ObjectStorage, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.RegisterInput

		if isMultipart(r) {
			if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
				return
			}
			in = service.RegisterInput{
				FirstName:   r.FormValue("first_name"),
				LastName:    r.FormValue("last_name"),
				Email:       r.FormValue("email"),
				Password:    r.FormValue("password"),
				Address:     optionalFormValue(r, "address"),
				Number:      optionalFormValue(r, "number"),
				AccountType: domain.AccountType(r.FormValue("account_type")),
			}
			if v := r.FormValue("age"); v != "" {
				age, err := strconv.Atoi(v)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid age"})
					return
				}
				in.Age = &age
			}
			for field, dest := range map[string]**string{
				"profile_image":       &in.ProfileImage,
				"verification_selfie": &in.VerificationSelfie,
				"valid_id":            &in.ValidID,
			} {
				fhs := r.MultipartForm.File[field]
				if len(fhs) == 0 {
					continue
				}
				folder := "profile_images"
				if field != "profile_image" {
					folder = "credentials"
				}
				path, err := uploadFile(r.Context(), store, fhs[0], folder)
				if err != nil {
					writeError(w, err)
					return
				}
				*dest = &path
			}
		} else {
			var req registerRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
				return
			}
			in = service.RegisterInput{
				FirstName:   req.FirstName,
				LastName:    req.LastName,
				Email:       req.Email,
				Password:    req.Password,
				Address:     req.Address,
				Age:         req.Age,
				Number:      req.Number,
				AccountType: domain.AccountType(req.AccountType),
			}
		}

		user, err := authSvc.Register(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, user)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func handleLogin(authSvc *service.AuthService, store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		resp, err := authSvc.Login(r.Context(), service.LoginInput{
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		resolveUser(r.Context(), store, resp.User)
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleMe(store storage.ObjectStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		resolveUser(r.Context(), store, user)
		writeJSON(w, http.StatusOK, user)
	}
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func handleChangePassword(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		if user == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		var req changePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := authSvc.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func handleForgotPassword(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req forgotPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := authSvc.ForgotPassword(r.Context(), req.Email); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "if the address is registered, a reset code has been sent",
		})
	}
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func handleResetPassword(authSvc *service.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := authSvc.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}
