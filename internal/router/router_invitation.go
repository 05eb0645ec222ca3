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
	"github.com/go-arcade/activation/internal/invitation"
	"github.com/go-arcade/activation/pkg/http"
	"github.com/go-arcade/activation/pkg/http/middleware"
	"github.com/go-arcade/activation/pkg/log"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) invitationRouter(r fiber.Router) {
	invitationGroup := r.Group("/invitations")
	{
		// 创建邀请
		invitationGroup.Post("/", rt.createInvitation)

		// 查询邀请状态
		invitationGroup.Get("/:token/status", rt.getInvitationStatus)

		// 接受 / 拒绝邀请
		invitationGroup.Post("/:token/accept", rt.acceptInvitation)
		invitationGroup.Post("/:token/reject", rt.rejectInvitation)

		// 设置密码
		invitationGroup.Post("/:token/password", rt.setInvitationPassword)
		invitationGroup.Post("/:token/password/verify", rt.verifyInvitationPassword)

		// 撤销邀请
		invitationGroup.Post("/:token/revoke", rt.revokeInvitation)
	}
}

// createInvitation 创建邀请
func (rt *Router) createInvitation(c *fiber.Ctx) error {
	var req invitation.CreateReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorw("create invitation failed", "error", err)
		return http.WithRepErrCode(c, http.RequestParameterParsingFailed)
	}

	result, err := rt.Invitation.Create(c.UserContext(), &req)
	if err != nil {
		return withRepErr(c, err)
	}

	c.Locals(middleware.DETAIL, result)
	return nil
}

// getInvitationStatus 查询邀请状态
func (rt *Router) getInvitationStatus(c *fiber.Ctx) error {
	record, err := rt.Invitation.GetStatus(c.UserContext(), c.Params("token"))
	if err != nil {
		return withRepErr(c, err)
	}

	c.Locals(middleware.DETAIL, record)
	return nil
}

// acceptInvitation 接受邀请
func (rt *Router) acceptInvitation(c *fiber.Ctx) error {
	if err := rt.Invitation.Accept(c.UserContext(), c.Params("token")); err != nil {
		return withRepErr(c, err)
	}

	c.Locals(middleware.OPERATION, "accept")
	return nil
}

// rejectInvitation 拒绝邀请
func (rt *Router) rejectInvitation(c *fiber.Ctx) error {
	if err := rt.Invitation.Reject(c.UserContext(), c.Params("token")); err != nil {
		return withRepErr(c, err)
	}

	c.Locals(middleware.OPERATION, "reject")
	return nil
}

// setInvitationPassword 设置密码
func (rt *Router) setInvitationPassword(c *fiber.Ctx) error {
	var req invitation.PasswordReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorw("set invitation password failed", "error", err)
		return http.WithRepErrCode(c, http.RequestParameterParsingFailed)
	}

	if err := rt.Invitation.SetPassword(c.UserContext(), c.Params("token"), req.Password); err != nil {
		return withRepErr(c, err)
	}

	c.Locals(middleware.OPERATION, "password")
	return nil
}

// verifyInvitationPassword 校验激活时设置的密码
func (rt *Router) verifyInvitationPassword(c *fiber.Ctx) error {
	var req invitation.PasswordReq
	if err := c.BodyParser(&req); err != nil {
		log.Errorw("verify invitation password failed", "error", err)
		return http.WithRepErrCode(c, http.RequestParameterParsingFailed)
	}

	ok, err := rt.Invitation.VerifyPassword(c.UserContext(), c.Params("token"), req.Password)
	if err != nil {
		return withRepErr(c, err)
	}

	c.Locals(middleware.DETAIL, invitation.VerifyResp{Verified: ok})
	return nil
}

// revokeInvitation 撤销邀请
func (rt *Router) revokeInvitation(c *fiber.Ctx) error {
	if err := rt.Invitation.Revoke(c.UserContext(), c.Params("token")); err != nil {
		return withRepErr(c, err)
	}

	c.Locals(middleware.OPERATION, "revoke")
	return nil
}
