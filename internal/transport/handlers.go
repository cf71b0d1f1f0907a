package transport

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/Rogue-Bear-Innovations/recipebox-back/internal/models"
)

func (s *HTTPServer) Register(c *fiber.Ctx) error {
	req := models.RegisterReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	if err := s.accounts.Register(ctx, req.ID, req.Password, req.Nickname); err != nil {
		return err
	}
	token, err := s.accounts.IssueToken(ctx, req.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.TokenResp{Token: token})
}

func (s *HTTPServer) Login(c *fiber.Ctx) error {
	req := models.LoginReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.UserContext()
	user, err := s.accounts.Authenticate(ctx, req.ID, req.Password)
	if err != nil {
		return err
	}
	token, err := s.accounts.IssueToken(ctx, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(models.TokenResp{Token: token})
}

func (s *HTTPServer) Logout(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	if err := s.accounts.RevokeToken(c.UserContext(), user.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

////////

func (s *HTTPServer) MeGet(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	info, err := s.accounts.GetUserInfo(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(info)
}

func (s *HTTPServer) MeUpdate(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.NicknameReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.accounts.UpdateNickname(c.UserContext(), user.ID, req.Nickname); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *HTTPServer) MePassword(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.PasswordReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	err = s.accounts.ChangePassword(c.UserContext(), user.ID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *HTTPServer) MeDelete(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	if err := s.accounts.DeleteUser(c.UserContext(), user.ID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

////////

func (s *HTTPServer) FridgeList(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	items, err := s.fridge.ListIngredients(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *HTTPServer) FridgeAdd(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.FridgeReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.fridge.AddIngredient(c.UserContext(), user.ID, req.Name, req.Quantity); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *HTTPServer) FridgeDelete(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	deleted, err := s.fridge.DeleteIngredient(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fiber.NewError(fiber.StatusNotFound, "no such ingredient in your fridge")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *HTTPServer) LookupList(c *fiber.Ctx) error {
	var table models.LookupTable
	switch c.Params("table") {
	case "ways":
		table = models.LookupWay
	case "types":
		table = models.LookupType
	default:
		return fiber.NewError(fiber.StatusBadRequest, "lookup table must be 'ways' or 'types'")
	}

	lookups, err := s.recipes.ListLookups(c.UserContext(), table)
	if err != nil {
		return err
	}
	return c.JSON(lookups)
}

////////

func (s *HTTPServer) RecipeSearch(c *fiber.Ctx) error {
	req := models.SearchReq{}
	if err := QueryAndValidate(c, &req); err != nil {
		return err
	}
	recipes, err := s.discovery.Browse(c.UserContext(), models.Filtered{Filters: req.Filters()})
	if err != nil {
		return err
	}
	return c.JSON(recipes)
}

func (s *HTTPServer) RecipeByFridge(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	var policy models.FridgeMatchPolicy
	switch c.Query("policy", "all") {
	case "all":
		policy = models.MatchAll
	case "any":
		policy = models.MatchAny
	default:
		return fiber.NewError(fiber.StatusBadRequest, "policy must be 'all' or 'any'")
	}

	matches, err := s.discovery.FindRecipesByFridge(c.UserContext(), user.ID, policy)
	if err != nil {
		return err
	}
	return c.JSON(matches)
}

func (s *HTTPServer) RecipeTop(c *fiber.Ctx) error {
	var by models.RankBy
	switch c.Query("by", "favorites") {
	case "favorites":
		by = models.RankByFavorites
	case "comments":
		by = models.RankByComments
	default:
		return fiber.NewError(fiber.StatusBadRequest, "by must be 'favorites' or 'comments'")
	}

	ranked, err := s.discovery.Top5(c.UserContext(), by)
	if err != nil {
		return err
	}
	return c.JSON(ranked)
}

func (s *HTTPServer) RecipeGet(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	detail, err := s.recipes.GetRecipeDetail(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (s *HTTPServer) RecipeCreate(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.RecipeReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.resolveLookups(c, &req); err != nil {
		return err
	}
	id, err := s.recipes.CreateRecipe(c.UserContext(), user.ID, req.Input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.IDResp{ID: id})
}

func (s *HTTPServer) RecipeUpdate(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.requireAuthor(c, id); err != nil {
		return err
	}

	req := models.RecipeReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := s.resolveLookups(c, &req); err != nil {
		return err
	}
	if err := s.recipes.UpdateRecipe(c.UserContext(), id, req.Input()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *HTTPServer) RecipeDelete(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	if err := s.requireAuthor(c, id); err != nil {
		return err
	}
	if err := s.recipes.DeleteRecipe(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// resolveLookups fills type_id and way_id from their names when only the
// names were sent. An explicit id wins.
func (s *HTTPServer) resolveLookups(c *fiber.Ctx, req *models.RecipeReq) error {
	ctx := c.UserContext()
	if req.TypeID == 0 {
		id, err := s.recipes.ResolveLookupID(ctx, models.LookupType, req.Type)
		if err != nil {
			return err
		}
		req.TypeID = id
	}
	if req.WayID == 0 {
		id, err := s.recipes.ResolveLookupID(ctx, models.LookupWay, req.Way)
		if err != nil {
			return err
		}
		req.WayID = id
	}
	return nil
}

// requireAuthor fails with errForbidden unless the caller wrote the recipe.
func (s *HTTPServer) requireAuthor(c *fiber.Ctx, recipeID uint64) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	author, err := s.recipes.AuthorOf(c.UserContext(), recipeID)
	if err != nil {
		return err
	}
	if author != user.ID {
		return errors.Wrap(errForbidden, "only the author can change a recipe")
	}
	return nil
}

////////

func (s *HTTPServer) FavoriteToggle(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	res, err := s.social.ToggleFavorite(c.UserContext(), id, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(models.FavoriteResp{
		Favorited: res == models.Added,
		Result:    res.String(),
	})
}

func (s *HTTPServer) FavoriteGet(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	ok, err := s.social.IsFavorited(c.UserContext(), id, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(models.FavoriteResp{Favorited: ok})
}

func (s *HTTPServer) FavoriteList(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}
	recipes, err := s.social.ListFavorites(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(recipes)
}

func (s *HTTPServer) CommentCreate(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.CommentReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}
	commentID, err := s.social.AddComment(c.UserContext(), user.ID, id, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(models.IDResp{ID: commentID})
}

func (s *HTTPServer) CommentDelete(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	deleted, err := s.social.DeleteComment(c.UserContext(), id, user.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return fiber.NewError(fiber.StatusNotFound, "no such comment of yours")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
