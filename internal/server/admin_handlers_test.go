package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ladle/internal/models"
	"ladle/internal/service"

	"github.com/gofiber/fiber/v2"
)

func TestApproveRecipeHandler(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	chef := seedUser(t, db, "chef", models.RoleUser)
	recipe := seedRecipe(t, db, chef.ID, "Jollof Deluxe", models.RecipeStatusPending)

	app.Put("/admin/recipes/:id/approve", func(c *fiber.Ctx) error {
		c.Locals("identity", asIdentity(admin))
		return s.ApproveRecipe(c)
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/recipes/%d/approve", recipe.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		var got models.Recipe
		json.NewDecoder(resp.Body).Decode(&got)
		if got.Status != models.RecipeStatusApproved {
			t.Errorf("expected approved, got %s", got.Status)
		}
	})

	t.Run("repeat approve is a no-op", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/recipes/%d/approve", recipe.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("missing recipe", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/admin/recipes/9999/approve", nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestApproveRecipeHandler_NonAdmin(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	chef := seedUser(t, db, "chef", models.RoleUser)
	recipe := seedRecipe(t, db, chef.ID, "Okra Stew", models.RecipeStatusPending)

	app.Put("/admin/recipes/:id/approve", func(c *fiber.Ctx) error {
		c.Locals("identity", asIdentity(chef))
		return s.ApproveRecipe(c)
	})

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/recipes/%d/approve", recipe.ID), nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403, got %d", resp.StatusCode)
	}

	var stored models.Recipe
	db.First(&stored, recipe.ID)
	if stored.Status != models.RecipeStatusPending {
		t.Errorf("recipe status changed by non-admin: %s", stored.Status)
	}
}

func TestRejectRecipeHandler(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	chef := seedUser(t, db, "chef", models.RoleUser)

	app.Put("/admin/recipes/:id/reject", func(c *fiber.Ctx) error {
		c.Locals("identity", asIdentity(admin))
		return s.RejectRecipe(c)
	})

	t.Run("with note", func(t *testing.T) {
		recipe := seedRecipe(t, db, chef.ID, "Too Salty Soup", models.RecipeStatusPending)
		body, _ := json.Marshal(map[string]string{"admin_note": "too salty"})
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/recipes/%d/reject", recipe.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		var got models.Recipe
		json.NewDecoder(resp.Body).Decode(&got)
		if got.Status != models.RecipeStatusRejected {
			t.Errorf("expected rejected, got %s", got.Status)
		}
		if got.AdminNote != "too salty" {
			t.Errorf("expected admin note persisted, got %q", got.AdminNote)
		}
	})

	t.Run("without note uses default", func(t *testing.T) {
		recipe := seedRecipe(t, db, chef.ID, "Bland Stew", models.RecipeStatusPending)
		req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/recipes/%d/reject", recipe.ID), nil)
		resp, _ := app.Test(req)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
		var got models.Recipe
		json.NewDecoder(resp.Body).Decode(&got)
		if got.AdminNote != service.DefaultRejectionNote {
			t.Errorf("expected default note, got %q", got.AdminNote)
		}
	})
}

func TestGetPendingRecipesHandler(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	chef := seedUser(t, db, "chef", models.RoleUser)
	first := seedRecipe(t, db, chef.ID, "First In Queue", models.RecipeStatusPending)
	seedRecipe(t, db, chef.ID, "Second In Queue", models.RecipeStatusPending)
	seedRecipe(t, db, chef.ID, "Already Live", models.RecipeStatusApproved)

	app.Get("/admin/recipes/pending", func(c *fiber.Ctx) error {
		c.Locals("identity", asIdentity(admin))
		return s.GetPendingRecipes(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/recipes/pending", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var recipes []models.Recipe
	json.NewDecoder(resp.Body).Decode(&recipes)
	if len(recipes) != 2 {
		t.Fatalf("expected 2 pending recipes, got %d", len(recipes))
	}
	if recipes[0].ID != first.ID {
		t.Errorf("queue not oldest-first: got %d first", recipes[0].ID)
	}
}

func TestGetDashboardHandler(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t)
	app := fiber.New()

	admin := seedUser(t, db, "admin", models.RoleAdmin)
	chef := seedUser(t, db, "chef", models.RoleUser)
	seedRecipe(t, db, chef.ID, "Pending One", models.RecipeStatusPending)
	seedRecipe(t, db, chef.ID, "Approved One", models.RecipeStatusApproved)
	seedRecipe(t, db, chef.ID, "Rejected One", models.RecipeStatusRejected)

	app.Get("/admin/dashboard", func(c *fiber.Ctx) error {
		c.Locals("identity", asIdentity(admin))
		return s.GetDashboard(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var dash service.Dashboard
	json.NewDecoder(resp.Body).Decode(&dash)
	stats := dash.Stats
	if stats.TotalRecipes != 3 || stats.PendingRecipes != 1 || stats.ApprovedRecipes != 1 || stats.RejectedRecipes != 1 {
		t.Errorf("unexpected recipe counters: %+v", stats)
	}
	if stats.TotalUsers != 2 {
		t.Errorf("expected 2 users, got %d", stats.TotalUsers)
	}
	if len(dash.PendingRecipes) != 1 || dash.PendingRecipes[0].Title != "Pending One" {
		t.Errorf("expected the pending queue in the dashboard, got %+v", dash.PendingRecipes)
	}
}
