package handler

import (
	"github.com/labstack/echo/v4"

	"chatspace/internal/usecase"
	"chatspace/pkg/response"
)

type GroupHandler struct {
	groupUseCase *usecase.GroupUseCase
}

func NewGroupHandler(groupUseCase *usecase.GroupUseCase) *GroupHandler {
	return &GroupHandler{
		groupUseCase: groupUseCase,
	}
}

type createGroupRequest struct {
	Name     string   `json:"name" validate:"required,min=1,max=50"`
	Members  []string `json:"members"`
	ImageURL string   `json:"image_url,omitempty" validate:"omitempty,url"`
}

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

func (h *GroupHandler) CreateGroup(c echo.Context) error {
	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)
	group, err := h.groupUseCase.CreateGroup(c.Request().Context(), userID, usecase.CreateGroupInput{
		Name:     req.Name,
		Members:  req.Members,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, group)
}

func (h *GroupHandler) ListGroups(c echo.Context) error {
	userID := c.Get("uid").(string)

	groups, err := h.groupUseCase.ListGroups(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, groups)
}

func (h *GroupHandler) GetGroup(c echo.Context) error {
	groupID := c.Param("id")
	userID := c.Get("uid").(string)

	group, err := h.groupUseCase.GetGroup(c.Request().Context(), userID, groupID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, group)
}

func (h *GroupHandler) AddMember(c echo.Context) error {
	var req addMemberRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	groupID := c.Param("id")
	userID := c.Get("uid").(string)

	group, err := h.groupUseCase.AddMember(c.Request().Context(), userID, groupID, req.UserID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, group)
}

func (h *GroupHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	groupID := c.Param("id")
	userID := c.Get("uid").(string)

	message, err := h.groupUseCase.SendMessage(c.Request().Context(), userID, groupID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}

func (h *GroupHandler) GetMessages(c echo.Context) error {
	groupID := c.Param("id")
	userID := c.Get("uid").(string)

	messages, err := h.groupUseCase.GetMessages(c.Request().Context(), userID, groupID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}
