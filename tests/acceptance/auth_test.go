package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/nxtrix/account-service/internal/dto"
)

func (s *Suite) register(email, password string) dto.AuthResponse {
	reqBody := dto.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Test User",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Registration should succeed")

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	return authResp
}

func (s *Suite) authorizedRequest(method, path, token string, reqBody any) *http.Response {
	var buf bytes.Buffer
	if reqBody != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(reqBody))
	}

	req, err := http.NewRequest(method, s.BaseURL+path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestRegister_Success() {
	reqBody := dto.RegisterRequest{
		Email:    "test@example.com",
		Password: "Password123!",
		FullName: "Test User",
		Company:  "Test Realty",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var authResp dto.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.SessionToken)
	s.Equal("Bearer", authResp.TokenType)
	s.NotZero(authResp.ExpiresIn)
	s.Equal("test@example.com", authResp.User.Email)
	s.NotEmpty(authResp.User.ID)

	s.Require().NotNil(authResp.Trial, "Registration should open a trial")
	s.Equal(7, authResp.Trial.DaysRemaining)
	s.NotEmpty(authResp.Trial.TrialEnd)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("duplicate@example.com", "Password123!")

	reqBody := dto.RegisterRequest{
		Email:    "Duplicate@Example.com",
		Password: "Password123!",
		FullName: "Second User",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("email_taken", errResp.Error)
}

func (s *Suite) TestRegister_WeakPassword() {
	reqBody := dto.RegisterRequest{
		Email:    "weak@example.com",
		Password: "password",
		FullName: "Weak User",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("validation_failed", errResp.Error)
	s.NotNil(errResp.Details, "Violations should be itemized")
}

func (s *Suite) TestRegister_InvalidEmail() {
	reqBody := dto.RegisterRequest{
		Email:    "invalid-email",
		Password: "Password123!",
		FullName: "Invalid User",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.register("login@example.com", "Password123!")

	loginReq := dto.LoginRequest{
		Email:    "login@example.com",
		Password: "Password123!",
	}
	body, _ := json.Marshal(loginReq)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	err = json.NewDecoder(resp.Body).Decode(&authResp)
	s.Require().NoError(err)

	s.NotEmpty(authResp.SessionToken)
	s.Equal("Bearer", authResp.TokenType)
	s.Equal("login@example.com", authResp.User.Email)
	s.Nil(authResp.Trial, "Login should not repeat the trial block")
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("wrongpass@example.com", "Password123!")

	loginReq := dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword123!",
	}
	body, _ := json.Marshal(loginReq)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("invalid_credentials", errResp.Error)
}

func (s *Suite) TestLogin_UnknownEmailSameError() {
	loginReq := dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "Password123!",
	}
	body, _ := json.Marshal(loginReq)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("invalid_credentials", errResp.Error)
}

func (s *Suite) TestLogout_InvalidatesSession() {
	authResp := s.register("logout@example.com", "Password123!")

	resp := s.authorizedRequest(http.MethodPost, "/api/v1/auth/logout", authResp.SessionToken, nil)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	meResp := s.authorizedRequest(http.MethodGet, "/api/v1/auth/me", authResp.SessionToken, nil)
	meResp.Body.Close()
	s.Equal(http.StatusUnauthorized, meResp.StatusCode)
}

func (s *Suite) TestLogout_Idempotent() {
	authResp := s.register("relogout@example.com", "Password123!")

	for i := 0; i < 2; i++ {
		resp := s.authorizedRequest(http.MethodPost, "/api/v1/auth/logout", authResp.SessionToken, nil)
		resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode)
	}
}

func (s *Suite) TestGetMe_Success() {
	authResp := s.register("getme@example.com", "Password123!")

	resp := s.authorizedRequest(http.MethodGet, "/api/v1/auth/me", authResp.SessionToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var user dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&user))
	s.Equal("getme@example.com", user.Email)
	s.Equal("Test User", user.FullName)
}

func (s *Suite) TestGetMe_NoToken() {
	req, err := http.NewRequest(http.MethodGet, s.BaseURL+"/api/v1/auth/me", nil)
	s.Require().NoError(err)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
