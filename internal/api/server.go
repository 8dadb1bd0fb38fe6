package api

import (
	"net/http"

	"pantrygo/internal/auth"
	"pantrygo/internal/pantry"

	"github.com/gin-gonic/gin"
)

// Server is the HTTP surface of the pantry workflow. Handlers stay thin:
// they translate requests into controller actions and render the resulting
// session snapshot.
type Server struct {
	router      *gin.Engine
	gateway     *auth.Gateway
	controller  *pantry.Controller
	hub         *Hub
	unsubscribe func()
}

// NewServer wires the gateway, controller and websocket hub together and
// registers all routes. The auth-state subscription it takes out is released
// by Close.
func NewServer(gateway *auth.Gateway, controller *pantry.Controller) *Server {
	router := gin.Default()

	s := &Server{
		router:     router,
		gateway:    gateway,
		controller: controller,
		hub:        NewHub(),
	}

	controller.SetOnChange(s.hub.Broadcast)
	s.unsubscribe = gateway.OnAuthStateChanged(controller.HandleAuthState)

	s.setupRoutes()
	return s
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "PantryGo API is running"})
	})

	s.router.GET("/ws", s.handleWebSocket)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/auth/signin", s.handleSignIn)
		v1.POST("/auth/signout", s.handleSignOut)

		protected := v1.Group("")
		protected.Use(auth.Middleware(s.gateway))
		{
			protected.GET("/session", s.handleSession)
			protected.GET("/items", s.handleListItems)
			protected.POST("/items", s.handleAddItem)
			protected.POST("/items/:id/edit", s.handleStartEdit)
			protected.DELETE("/items/:id", s.handleDeleteItem)
			protected.GET("/items/search", s.handleSearchItems)
		}
	}

	// Same-origin recipe proxy: the upstream credential lives server-side
	// and never reaches client-deliverable code.
	recipes := s.router.Group("/api")
	recipes.Use(auth.Middleware(s.gateway))
	{
		recipes.POST("/generate-recipe", s.handleGenerateRecipe)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Close releases the identity-state subscription. Without this a re-created
// server would leave a duplicate callback registered on the gateway.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
}
