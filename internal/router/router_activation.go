// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"github.com/go-arcade/activation/internal/activation"
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/pkg/http"
	"github.com/go-arcade/activation/pkg/http/middleware"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// activationResp 激活页面响应，fetchError 仅在状态查询失败时出现
type activationResp struct {
	activation.View
	FetchError string `json:"fetchError,omitempty"`
}

func (rt *Router) activationRouter(r fiber.Router) {
	activationGroup := r.Group("/activation", middleware.SessionMiddleware(rt.Http.Session), i18nMiddleware())
	{
		// 初始化激活页面
		activationGroup.Get("/:token", rt.initActivation)

		// 用户操作
		activationGroup.Post("/:token/accept", rt.acceptActivation)
		activationGroup.Post("/:token/decline", rt.declineActivation)
		activationGroup.Post("/:token/security-setup", rt.securitySetup)
		activationGroup.Post("/:token/back", rt.backActivation)
		activationGroup.Post("/:token/finish", rt.finishActivation)
	}
}

func (rt *Router) controller(c *fiber.Ctx) (*activation.Controller, error) {
	token := c.Params("token")
	if token == "" {
		return nil, invitation.ErrTokenEmpty
	}
	return rt.Registry.Get(c.UserContext(), middleware.SessionId(c), token)
}

// initActivation 查询邀请状态（每个会话至多一次）并返回当前页面
func (rt *Router) initActivation(c *fiber.Ctx) error {
	ctrl, err := rt.controller(c)
	if err != nil {
		return withRepErr(c, err)
	}

	resp := activationResp{}
	if err = ctrl.Initialize(c.UserContext()); err != nil {
		// 查询失败保留当前页面
		resp.FetchError = err.Error()
	}
	resp.View = localize(c, ctrl.View())

	c.Locals(middleware.DETAIL, resp)
	return nil
}

// acceptActivation 接受邀请并进入安全设置
func (rt *Router) acceptActivation(c *fiber.Ctx) error {
	return rt.mutate(c, func(ctrl *activation.Controller) error {
		return ctrl.Accept(c.UserContext())
	})
}

// declineActivation 拒绝邀请
func (rt *Router) declineActivation(c *fiber.Ctx) error {
	return rt.mutate(c, func(ctrl *activation.Controller) error {
		return ctrl.Decline(c.UserContext())
	})
}

// securitySetup 提交密码
func (rt *Router) securitySetup(c *fiber.Ctx) error {
	var req invitation.PasswordReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorw("security setup failed", "error", err)
		return http.WithRepErrCode(c, http.RequestParameterParsingFailed)
	}
	return rt.mutate(c, func(ctrl *activation.Controller) error {
		return ctrl.SubmitPassword(c.UserContext(), req.Password)
	})
}

// backActivation 从安全设置返回邀请详情
func (rt *Router) backActivation(c *fiber.Ctx) error {
	return rt.mutate(c, func(ctrl *activation.Controller) error {
		return rt.local(c, ctrl, ctrl.GoBack)
	})
}

// finishActivation 确认激活成功
func (rt *Router) finishActivation(c *fiber.Ctx) error {
	return rt.mutate(c, func(ctrl *activation.Controller) error {
		return rt.local(c, ctrl, ctrl.Finish)
	})
}

// local applies a transition without network and persists the snapshot
func (rt *Router) local(c *fiber.Ctx, ctrl *activation.Controller, op func() error) error {
	if err := op(); err != nil {
		return err
	}
	if err := ctrl.Save(c.UserContext()); err != nil {
		log.Warnw("failed to save activation snapshot", "error", err)
	}
	return nil
}

func (rt *Router) mutate(c *fiber.Ctx, op func(ctrl *activation.Controller) error) error {
	ctrl, err := rt.controller(c)
	if err != nil {
		return withRepErr(c, err)
	}
	if err = op(ctrl); err != nil {
		return withRepErr(c, err)
	}

	c.Locals(middleware.DETAIL, activationResp{View: localize(c, ctrl.View())})
	return nil
}
