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

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	InternalError                 = failed(5000, "Internal error, please contact the administrator")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	// Unauthorized 401 session
	Unauthorized   = failed(4401, "Unauthorized")
	InvalidSession = failed(4405, "Invalid session")

	// Invitation 46xx
	InvitationTokenEmpty      = failed(4600, "Invitation token is empty")
	InvitationNotFound        = failed(4601, "Invitation does not exist")
	InvitationExpired         = failed(4602, "Invitation has expired")
	InvitationRevoked         = failed(4603, "Invitation has been revoked")
	InvitationAlreadyAccepted = failed(4604, "Invitation has already been accepted")
	InvitationNotAccepted     = failed(4605, "Invitation has not been accepted")
	PasswordAlreadySet        = failed(4606, "Password has already been set")
	WeakPassword              = failed(4607, "Password does not satisfy the password policy")
	InvalidInvitationRequest  = failed(4608, "Email, organization and company name are required")

	// Activation 47xx
	ActionInProgress    = failed(4701, "Another action is in progress")
	ActionNotAllowed    = failed(4702, "Action is not allowed in the current step")
	StatusFetchFailed   = failed(4703, "Failed to fetch invitation status")
	UpstreamUnavailable = failed(4704, "Invitation service is unavailable")
)

var (
	Success = success(200, "Request Success")
)

// failed 构造函数
func failed(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}

// success 构造函数
func success(code int, msg string) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
	}
}
