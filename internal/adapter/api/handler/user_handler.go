package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"chatspace/internal/usecase"
	"chatspace/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type sendFriendRequestRequest struct {
	ToUserID string `json:"to_user_id" validate:"required"`
}

type acceptFriendRequestRequest struct {
	FromUserID string `json:"from_user_id" validate:"required"`
}

type cancelFriendRequestRequest struct {
	ToUserID string `json:"to_user_id" validate:"required"`
}

type updateProfileRequest struct {
	Username   string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Bio        string `json:"bio,omitempty" validate:"omitempty,max=160"`
	ProfilePic string `json:"profile_pic,omitempty" validate:"omitempty,url"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	userID := c.Get("uid").(string)

	user, err := h.userUseCase.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) FriendSuggestions(c echo.Context) error {
	userID := c.Get("uid").(string)

	suggestions, err := h.userUseCase.FriendSuggestions(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, suggestions)
}

func (h *UserHandler) SendFriendRequest(c echo.Context) error {
	var req sendFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	if err := h.userUseCase.SendFriendRequest(c.Request().Context(), userID, req.ToUserID); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *UserHandler) AcceptFriendRequest(c echo.Context) error {
	var req acceptFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	if err := h.userUseCase.AcceptFriendRequest(c.Request().Context(), userID, req.FromUserID); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *UserHandler) CancelFriendRequest(c echo.Context) error {
	var req cancelFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	if err := h.userUseCase.CancelFriendRequest(c.Request().Context(), userID, req.ToUserID); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *UserHandler) DeleteFriendRequest(c echo.Context) error {
	fromUserID := c.Param("fromUserId")
	userID := c.Get("uid").(string)

	if err := h.userUseCase.DeleteFriendRequest(c.Request().Context(), userID, fromUserID); err != nil {
		return response.Error(c, err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *UserHandler) ListFriendRequests(c echo.Context) error {
	userID := c.Get("uid").(string)

	requests, err := h.userUseCase.ListFriendRequests(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, requests)
}

func (h *UserHandler) ListFriends(c echo.Context) error {
	userID := c.Get("uid").(string)

	friends, err := h.userUseCase.ListFriends(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, friends)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		Username:   req.Username,
		Email:      req.Email,
		Bio:        req.Bio,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
