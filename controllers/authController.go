package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cityfix-be/models"
	"cityfix-be/store"
	"cityfix-be/utils"
)

type AuthController struct {
	users  store.UserStore
	issues store.IssueStore
}

func NewAuthController(users store.UserStore, issues store.IssueStore) *AuthController {
	return &AuthController{users: users, issues: issues}
}

// Root is the landing page. A logged-in client goes straight to its
// dashboard; everyone else gets the auth entry points.
func (a *AuthController) Root(c *gin.Context) {
	if _, _, err := utils.ParseToken(utils.TokenFromRequest(c)); err == nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"app":      "CityFix",
		"login":    "/auth/login",
		"register": "/auth/register",
	})
}

// Register handles new user registration, including role assignment.
func (a *AuthController) Register(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	role := strings.TrimSpace(c.PostForm("role"))

	if email == "" || password == "" {
		utils.SetFlash(c, "danger", "Email and password are required.")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if role == "" {
		role = string(models.RoleUser)
	}
	if !models.ValidRole(role) {
		utils.SetFlash(c, "danger", "Invalid role.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := a.users.GetByEmail(ctx, email); err == nil {
		utils.SetFlash(c, "danger", "Email already exists. Please choose another.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	user := models.User{
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      models.Role(role),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := user.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := a.users.Create(ctx, &user); err != nil {
		log.Println("Error inserting user:", err)
		utils.SetFlash(c, "danger", "Email already exists. Please choose another.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	utils.SetFlash(c, "success", "Registration successful! Please log in.")
	c.Redirect(http.StatusFound, "/")
}

// Login checks email/password and installs the session cookie.
func (a *AuthController) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil || !user.ComparePassword(password) {
		utils.SetFlash(c, "danger", "Invalid email or password")
		c.Redirect(http.StatusFound, "/")
		return
	}

	token, err := utils.GenerateToken(user.Email, user.Role)
	if err != nil {
		log.Println("Error generating token:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		c.Redirect(http.StatusFound, "/")
		return
	}

	setSessionCookie(c, token)
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout clears the session. A browser GET gets a flash and a redirect, a
// programmatic POST gets a bare 204.
func (a *AuthController) Logout(c *gin.Context) {
	clearSessionCookie(c)

	if c.Request.Method == http.MethodGet {
		utils.SetFlash(c, "info", "Logged out successfully")
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Status(http.StatusNoContent)
}

// Status reports whether the document store is reachable.
func (a *AuthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.users.Ping(ctx); err != nil {
		c.String(http.StatusOK, "MongoDB connection error: %v", err)
		return
	}
	c.String(http.StatusOK, "MongoDB connection is healthy.")
}

// Dashboard returns the role-specific view: admins see every issue plus the
// maintenance roster, maintenance staff see their assignments, everyone
// else sees their own reports. This route always re-reads the user from the
// identity store, so it reflects role changes made mid-session.
func (a *AuthController) Dashboard(c *gin.Context) {
	email := currentEmail(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		utils.SetFlash(c, "danger", "User not found")
		c.Redirect(http.StatusFound, "/")
		return
	}

	var issues []models.Issue
	maintenanceUsers := []models.User{}

	switch user.Role {
	case models.RoleAdmin:
		issues, err = a.issues.ListAll(ctx)
		if err == nil {
			maintenanceUsers, err = a.users.ListByRole(ctx, models.RoleMaintenance)
		}
	case models.RoleMaintenance:
		issues, err = a.issues.ListByAssignee(ctx, email)
	default:
		issues, err = a.issues.ListByReporter(ctx, email)
	}
	if err != nil {
		log.Println("Error loading dashboard:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":              user,
		"issues":            issues,
		"maintenance_users": maintenanceUsers,
	})
}

// Profile returns the logged-in user's account data.
func (a *AuthController) Profile(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := a.users.GetByEmail(ctx, currentEmail(c))
	if err != nil {
		utils.SetFlash(c, "danger", "User not found")
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile applies name and/or password edits for the logged-in user.
func (a *AuthController) UpdateProfile(c *gin.Context) {
	newName := strings.TrimSpace(c.PostForm("name"))
	newPassword := c.PostForm("password")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := a.users.GetByEmail(ctx, currentEmail(c))
	if err != nil {
		utils.SetFlash(c, "danger", "User not found")
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	var upd store.UserUpdate
	if newName != "" {
		upd.Name = &newName
	}
	if newPassword != "" {
		hasher := models.User{Password: newPassword}
		if err := hasher.HashPassword(); err != nil {
			log.Println("Error hashing password:", err)
			utils.SetFlash(c, "danger", "Something went wrong")
			c.Redirect(http.StatusFound, "/profile")
			return
		}
		upd.Password = &hasher.Password
	}

	if upd.Name == nil && upd.Password == nil {
		utils.SetFlash(c, "info", "No changes made.")
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	if err := a.users.Update(ctx, user.ID.Hex(), upd); err != nil {
		log.Println("Error updating profile:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	utils.SetFlash(c, "success", "Profile updated successfully")
	c.Redirect(http.StatusFound, "/profile")
}

// DeleteAccount removes the logged-in user's account and ends the session.
// Their issues stay behind; report history outlives the reporter's account.
func (a *AuthController) DeleteAccount(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.users.DeleteByEmail(ctx, currentEmail(c)); err != nil {
		log.Println("Error deleting account:", err)
		utils.SetFlash(c, "danger", "Something went wrong")
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	clearSessionCookie(c)
	utils.SetFlash(c, "info", "Your account has been deleted.")
	c.Redirect(http.StatusFound, "/")
}
