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

// UserController is the admin's account-management surface: list non-admin
// users, change their role or password, or delete them.
type UserController struct {
	users store.UserStore
}

func NewUserController(users store.UserStore) *UserController {
	return &UserController{users: users}
}

func (u *UserController) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users, err := u.users.ListNonAdmin(ctx)
	if err != nil {
		log.Println("Error listing users:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Update applies a role and/or password change to the given account.
func (u *UserController) Update(c *gin.Context) {
	userID := c.PostForm("user_id")
	newRole := strings.TrimSpace(c.PostForm("role"))
	newPassword := c.PostForm("password")

	var upd store.UserUpdate
	if newRole != "" {
		if !models.ValidRole(newRole) {
			utils.SetFlash(c, "danger", "Invalid role.")
			c.Redirect(http.StatusFound, "/admin/users")
			return
		}
		upd.Role = &newRole
	}
	if newPassword != "" {
		hasher := models.User{Password: newPassword}
		if err := hasher.HashPassword(); err != nil {
			log.Println("Error hashing password:", err)
			utils.SetFlash(c, "danger", "Something went wrong")
			c.Redirect(http.StatusFound, "/admin/users")
			return
		}
		upd.Password = &hasher.Password
	}

	if upd.Role == nil && upd.Password == nil {
		utils.SetFlash(c, "info", "No changes submitted.")
		c.Redirect(http.StatusFound, "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := u.users.Update(ctx, userID, upd); err != nil {
		log.Println("Error updating user:", err)
		utils.SetFlash(c, "danger", "User not found.")
		c.Redirect(http.StatusFound, "/admin/users")
		return
	}

	utils.SetFlash(c, "success", "User updated successfully.")
	c.Redirect(http.StatusFound, "/admin/users")
}

func (u *UserController) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deleted, err := u.users.DeleteByID(ctx, c.Param("user_id"))
	if err != nil || !deleted {
		utils.SetFlash(c, "warning", "User not found or already deleted.")
		c.Redirect(http.StatusFound, "/admin/users")
		return
	}

	utils.SetFlash(c, "success", "User deleted successfully.")
	c.Redirect(http.StatusFound, "/admin/users")
}
