package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/eventcrew/eventcrew-api/internal/models"
	"github.com/eventcrew/eventcrew-api/internal/utils"
)

// GoogleOAuthHandler is the secondary login path: it links a Google account
// to an existing profile by verified email. Accounts are still created
// through the phone flow, phone being the primary key of the marketplace.
type GoogleOAuthHandler struct {
	DB             *gorm.DB
	JWTSecret      string
	Expires        int
	GoogleClientID string
	GoogleSecret   string
	GoogleRedirect string
	FrontendURL    string
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	st := randomState(32)

	c.Cookie(&fiber.Cookie{
		Name:     "oauth_state",
		Value:    st,
		Path:     "/",
		HTTPOnly: true,
		SameSite: "Lax",
		MaxAge:   10 * 60,
	})

	authURL := h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline)
	return c.Redirect(authURL, http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Missing code/state")
	}
	if st := c.Cookies("oauth_state"); st == "" || st != state {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid state")
	}

	tok, err := h.oauthCfg().Exchange(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Failed to exchange code")
	}

	client := h.oauthCfg().Client(c.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return c.Status(fiber.StatusBadGateway).SendString("Failed to fetch user info")
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		return c.Status(fiber.StatusBadGateway).SendString("Invalid user info")
	}
	if !info.VerifiedEmail {
		return h.redirectWithError(c, "email_not_verified")
	}

	var user models.User
	if err := h.DB.Where("email = ?", info.Email).First(&user).Error; err != nil {
		// No linked profile; the user must register by phone first.
		return h.redirectWithError(c, "no_linked_account")
	}

	token, err := utils.SignJWT(h.JWTSecret, user.ID.String(), user.Phone, h.Expires)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to create token")
	}

	return c.Redirect(h.FrontendURL+"/auth/callback#token="+url.QueryEscape(token), http.StatusTemporaryRedirect)
}

func (h *GoogleOAuthHandler) redirectWithError(c *fiber.Ctx, reason string) error {
	return c.Redirect(h.FrontendURL+"/auth?error="+url.QueryEscape(reason), http.StatusTemporaryRedirect)
}
