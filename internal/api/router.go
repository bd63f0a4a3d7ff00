package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{DB: db}
	requestsHandler := &RequestsHandler{DB: db}
	messagesHandler := &MessagesHandler{DB: db}
	pointsHandler := &PointsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	optionalMW := OptionalAuth(jwtSecret, db)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Items and categories: browsing is public, listing an item requires an
	// account, deletion is owner-or-admin (checked in the store).
	mux.HandleFunc("GET /api/categories", itemsHandler.ListCategories)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	// Requests: the unfiltered list is public but the pending-only view is
	// admin-only, so the list route resolves credentials when present.
	mux.Handle("GET /api/requests", optionalMW(http.HandlerFunc(requestsHandler.List)))
	mux.Handle("POST /api/requests", authMW(http.HandlerFunc(requestsHandler.Create)))
	mux.Handle("PUT /api/requests/{id}/status", authMW(http.HandlerFunc(requestsHandler.UpdateStatus)))
	mux.Handle("DELETE /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Delete)))

	// Messaging.
	mux.Handle("POST /api/messages", authMW(http.HandlerFunc(messagesHandler.Send)))
	mux.Handle("GET /api/messages/conversations", authMW(http.HandlerFunc(messagesHandler.ListConversations)))
	mux.Handle("GET /api/messages/conversation/{itemID}/{otherID}", authMW(http.HandlerFunc(messagesHandler.GetConversation)))

	// Points: own balance requires an account, the leaderboard is public.
	mux.Handle("GET /api/points/my-points", authMW(http.HandlerFunc(pointsHandler.MyPoints)))
	mux.HandleFunc("GET /api/points/leaderboard", pointsHandler.Leaderboard)

	return mux
}
