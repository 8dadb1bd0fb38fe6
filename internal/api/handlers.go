package api

import (
	"net/http"
	"strings"

	"pantrygo/internal/pantry"

	"github.com/gin-gonic/gin"
)

// SignInRequest carries the externally issued identity token.
type SignInRequest struct {
	Token string `json:"token" binding:"required"`
}

// RecipeRequest carries the ingredient list for the same-origin recipe
// endpoint. When Ingredients is empty the current inventory's names are
// used.
type RecipeRequest struct {
	Ingredients string `json:"ingredients"`
}

func (s *Server) handleSignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := s.gateway.SignIn(c.Request.Context(), req.Token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleSignOut(c *gin.Context) {
	s.gateway.SignOut()
	c.JSON(http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleListItems(c *gin.Context) {
	// Blank search is the full-reload path, so the snapshot always reflects
	// the remote collection.
	s.controller.SearchItems(c.Request.Context(), "")
	c.JSON(http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleAddItem(c *gin.Context) {
	var input pantry.FormInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.controller.AddItem(c.Request.Context(), input)
	c.JSON(http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleStartEdit(c *gin.Context) {
	s.controller.StartEdit(c.Param("id"))
	c.JSON(http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleDeleteItem(c *gin.Context) {
	s.controller.DeleteItem(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleSearchItems(c *gin.Context) {
	s.controller.SearchItems(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleGenerateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var recipeText string
	if strings.TrimSpace(req.Ingredients) != "" {
		names := strings.Split(req.Ingredients, ", ")
		recipeText = s.controller.RequestRecipeFor(c.Request.Context(), names)
	} else {
		recipeText = s.controller.RequestRecipe(c.Request.Context())
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipeText})
}
