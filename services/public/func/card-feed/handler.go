package main

import (
	"card-swipe/internal/models"
	"card-swipe/internal/service"
	"card-swipe/internal/utils"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	logger   *logrus.Entry
	accounts *service.AccountService
	boosts   *service.BoostService
	quests   *service.QuestEngine
	sessions *SessionStore
}

func NewHandler(logger *logrus.Entry, accounts *service.AccountService, boosts *service.BoostService, quests *service.QuestEngine, sessions *SessionStore) (*Handler, error) {
	return &Handler{
		logger:   logger,
		accounts: accounts,
		boosts:   boosts,
		quests:   quests,
		sessions: sessions,
	}, nil
}

type LoginRequest struct {
	Username string `json:"username"`
}

type CreateCardRequest struct {
	Username string `json:"username"`
	Text     string `json:"text"`
	Media    string `json:"media"` // data uri
}

type BoostRequest struct {
	Username string `json:"username"`
	Index    int    `json:"index"`
}

type SwipeRequest struct {
	Username  string                `json:"username"`
	Session   string                `json:"session"`
	Direction models.SwipeDirection `json:"direction"`
}

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type UserView struct {
	Username string                `json:"username"`
	Coins    int                   `json:"coins"`
	Cards    []models.Card         `json:"cards"`
	Quests   []service.TrackStatus `json:"quests"`
}

type FeedView struct {
	Session   string                  `json:"session"`
	Card      *models.SwipeQueueEntry `json:"card,omitempty"`
	Empty     bool                    `json:"empty"`
	Remaining int                     `json:"remaining"`
}

type LoginView struct {
	User UserView `json:"user"`
	Feed FeedView `json:"feed"`
}

func (h *Handler) EventHandler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	route := request.HTTPMethod + " " + strings.TrimSuffix(request.Path, "/")
	h.logger.WithField("route", route).Info("event handling")

	switch route {
	case "POST /login":
		return h.handleLogin(ctx, request), nil
	case "GET /profile":
		return h.handleProfile(ctx, request), nil
	case "POST /cards":
		return h.handleCreateCard(ctx, request), nil
	case "POST /cards/boost":
		return h.handleBoost(ctx, request), nil
	case "GET /feed":
		return h.handleFeed(ctx, request), nil
	case "POST /swipe":
		return h.handleSwipe(ctx, request), nil
	}
	return h.errorResponse(http.StatusNotFound, "Not found"), nil
}

func (h *Handler) handleLogin(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var req LoginRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		h.logger.WithError(err).Error("Failed to parse request body")
		return h.errorResponse(http.StatusBadRequest, "Invalid request body")
	}

	user, err := h.accounts.Login(ctx, req.Username)
	if err != nil {
		return h.failure(err)
	}

	session, err := h.sessions.Start(ctx, user.Username)
	if err != nil {
		return h.failure(err)
	}
	feed, err := h.present(ctx, session, session.Next)
	if err != nil {
		return h.failure(err)
	}

	return h.successResponse(Response{
		Status: "success",
		Data: LoginView{
			User: h.userView(user),
			Feed: *feed,
		},
	})
}

func (h *Handler) handleProfile(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	user, err := h.accounts.GetUser(ctx, request.QueryStringParameters["username"])
	if err != nil {
		return h.failure(err)
	}
	return h.successResponse(Response{Status: "success", Data: h.userView(user)})
}

func (h *Handler) handleCreateCard(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var req CreateCardRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		h.logger.WithError(err).Error("Failed to parse request body")
		return h.errorResponse(http.StatusBadRequest, "Invalid request body")
	}

	input := service.CardInput{Text: req.Text}
	if req.Media != "" {
		media, err := service.ParseDataURI(req.Media)
		if err != nil {
			h.logger.WithError(err).Warn("Rejected card media")
			return h.errorResponse(http.StatusBadRequest, err.Error())
		}
		input.Media = media
	}

	card, err := h.accounts.CreateCard(ctx, req.Username, input)
	if err != nil {
		return h.failure(err)
	}

	user, err := h.accounts.GetUser(ctx, req.Username)
	if err != nil {
		return h.failure(err)
	}
	return h.successResponse(Response{
		Status:  "success",
		Message: "Card created",
		Data: map[string]interface{}{
			"card": card,
			"user": h.userView(user),
		},
	})
}

func (h *Handler) handleBoost(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var req BoostRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		h.logger.WithError(err).Error("Failed to parse request body")
		return h.errorResponse(http.StatusBadRequest, "Invalid request body")
	}

	result, err := h.boosts.Purchase(ctx, req.Username, req.Index)
	if err != nil {
		return h.failure(err)
	}
	return h.successResponse(Response{Status: "success", Message: "Card boosted", Data: result})
}

func (h *Handler) handleFeed(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	user, err := h.accounts.GetUser(ctx, request.QueryStringParameters["username"])
	if err != nil {
		return h.failure(err)
	}

	session, _, err := h.sessions.Resume(ctx, request.QueryStringParameters["session"], user.Username)
	if err != nil {
		return h.failure(err)
	}

	feed, err := h.present(ctx, session, func(ctx context.Context) (*models.SwipeQueueEntry, error) {
		if current := session.Current(); current != nil {
			return current, nil
		}
		return session.Next(ctx)
	})
	if err != nil {
		return h.failure(err)
	}
	return h.feedResponse(feed, "")
}

func (h *Handler) handleSwipe(ctx context.Context, request events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	var req SwipeRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		h.logger.WithError(err).Error("Failed to parse request body")
		return h.errorResponse(http.StatusBadRequest, "Invalid request body")
	}
	user, err := h.accounts.GetUser(ctx, req.Username)
	if err != nil {
		return h.failure(err)
	}

	session, resumed, err := h.sessions.Resume(ctx, req.Session, user.Username)
	if err != nil {
		return h.failure(err)
	}

	if !resumed {
		// The card being swiped belonged to a session this container no
		// longer holds, so start over from the new queue head.
		feed, err := h.present(ctx, session, session.Next)
		if err != nil {
			return h.failure(err)
		}
		return h.feedResponse(feed, "Session restarted")
	}

	feed, err := h.present(ctx, session, func(ctx context.Context) (*models.SwipeQueueEntry, error) {
		return session.Swipe(ctx, req.Direction)
	})
	if err != nil {
		return h.failure(err)
	}
	return h.feedResponse(feed, "")
}

// present runs a queue step and folds the empty-queue signal into the view.
func (h *Handler) present(ctx context.Context, session *service.SwipeSession, step func(context.Context) (*models.SwipeQueueEntry, error)) (*FeedView, error) {
	entry, err := step(ctx)
	if err != nil && !errors.Is(err, service.ErrNoMoreCards) {
		return nil, err
	}
	return &FeedView{
		Session:   session.ID,
		Card:      entry,
		Empty:     entry == nil,
		Remaining: session.Remaining(),
	}, nil
}

func (h *Handler) userView(user *models.User) UserView {
	return UserView{
		Username: user.Username,
		Coins:    user.Coins,
		Cards:    user.Cards,
		Quests:   h.quests.Status(user),
	}
}

func (h *Handler) feedResponse(feed *FeedView, message string) events.APIGatewayProxyResponse {
	if feed.Empty && message == "" {
		message = "No more cards!"
	}
	return h.successResponse(Response{Status: "success", Message: message, Data: feed})
}

func (h *Handler) failure(err error) events.APIGatewayProxyResponse {
	var storeErr *utils.StoreError
	switch {
	case service.IsValidation(err):
		return h.errorResponse(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return h.errorResponse(http.StatusNotFound, "User not found")
	case errors.As(err, &storeErr):
		h.logger.WithError(err).Error("Store operation failed")
		return h.errorResponse(http.StatusBadGateway, "Action did not persist")
	}
	h.logger.WithError(err).Error("Request failed")
	return h.errorResponse(http.StatusInternalServerError, "Internal server error")
}

func (h *Handler) errorResponse(statusCode int, message string) events.APIGatewayProxyResponse {
	response := Response{
		Status:  "error",
		Message: message,
	}

	body, _ := json.Marshal(response)
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}
}

func (h *Handler) successResponse(data Response) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(data)
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(body),
	}
}
