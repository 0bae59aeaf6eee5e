package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/teamup/teamup-server/models"
	"github.com/teamup/teamup-server/repos"
	"github.com/teamup/teamup-server/services"
	"github.com/teamup/teamup-server/utils"
	"go.uber.org/fx"
)

type UserController struct {
	fx.In

	Match    *services.MatchService
	UserRepo *repos.UserRepo
}

func RegisterUserController(r *utils.Router, c UserController) {
	users := r.Group("/user")

	users.Get("/current", utils.Protected(standardRoute), c.currentUser)
	users.Get("/match", utils.Protected(standardRoute), c.matchUsers)
	users.Get("/search/tags", utils.Protected(standardRoute), c.searchUsersByTags)
}

func (r *UserController) currentUser(c *fiber.Ctx) error {
	user, err := r.UserRepo.Get(c.Context(), c.Locals("user").(int64))
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NotFound("user not found")
	}

	return c.JSON(fiber.Map{"data": models.NewUserView(user)})
}

func (r *UserController) matchUsers(c *fiber.Ctx) error {
	num, err := strconv.Atoi(c.Query("num", "10"))
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	actingUser, err := r.UserRepo.Get(c.Context(), c.Locals("user").(int64))
	if err != nil {
		return err
	}
	if actingUser == nil {
		return utils.NotFound("user not found")
	}

	views, err := r.Match.MatchUsers(c.Context(), actingUser, num)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": views})
}

func (r *UserController) searchUsersByTags(c *fiber.Ctx) error {
	query := new(struct {
		TagNameList []string `query:"tagNameList"`
	})
	if err := c.QueryParser(query); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	views, err := r.Match.SearchUsersByTags(c.Context(), query.TagNameList)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": views})
}
