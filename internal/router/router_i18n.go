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
	"embed"

	"github.com/go-arcade/activation/internal/activation"
	"github.com/gofiber/contrib/fiberi18n/v2"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

// i18nMiddleware 按 Accept-Language 选择页面文案
func i18nMiddleware() fiber.Handler {
	return fiberi18n.New(&fiberi18n.Config{
		RootPath:         "locales",
		AcceptLanguages:  []language.Tag{language.English, language.Chinese},
		DefaultLanguage:  language.English,
		FormatBundleFile: "yaml",
		UnmarshalFunc:    yaml.Unmarshal,
		Loader:           &fiberi18n.EmbedLoader{FS: localesFS},
		LangHandler: func(c *fiber.Ctx, defaultLang string) string {
			lng := c.Get(fiber.HeaderAcceptLanguage)
			if lng == "" {
				return defaultLang
			}
			return lng
		},
	})
}

// localize replaces the screen title with the translation for the request
// language, keeping the English default when no message matches
func localize(c *fiber.Ctx, view activation.View) activation.View {
	if msg, err := fiberi18n.Localize(c, view.Screen.TitleId); err == nil && msg != "" {
		view.Screen.Title = msg
	}
	return view
}
