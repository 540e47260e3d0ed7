package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"clubhouse/config"
	"clubhouse/repository"

	"golang.org/x/oauth2"
)

// OauthState is one pending login attempt, keyed by the opaque state
// parameter we hand to Discord. Entries expire after a minute.
type OauthState struct {
	Verifier string
	Timeout  int64
	Redirect string
}

type OauthService struct {
	discordConfig *oauth2.Config
	stateMap      map[string]OauthState
	mu            sync.Mutex
	userService   *UserService
}

type DiscordUserResponse struct {
	Id            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	GlobalName    string `json:"global_name"`
	Avatar        string `json:"avatar"`
	Locale        string `json:"locale"`
}

func NewOauthService() *OauthService {
	env := config.Env()
	return &OauthService{
		discordConfig: &oauth2.Config{
			ClientID:     env.DiscordClientID,
			ClientSecret: env.DiscordClientSecret,
			Scopes:       []string{"identify"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://discord.com/oauth2/authorize",
				TokenURL: "https://discord.com/api/oauth2/token",
			},
			RedirectURL: env.FrontendURL + "/api/oauth2/discord/redirect",
		},
		stateMap:    make(map[string]OauthState),
		userService: NewUserService(),
	}
}

// GetRedirectUrl starts a PKCE flow and returns the Discord authorize url.
// lastUrl is where the frontend wants the user back after the exchange.
func (s *OauthService) GetRedirectUrl(lastUrl string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for state, entry := range s.stateMap {
		if entry.Timeout < time.Now().Unix() {
			delete(s.stateMap, state)
		}
	}
	state := oauth2.GenerateVerifier()
	verifier := oauth2.GenerateVerifier()
	s.stateMap[state] = OauthState{
		Verifier: verifier,
		Timeout:  time.Now().Add(1 * time.Minute).Unix(),
		Redirect: lastUrl,
	}
	return s.discordConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("code_challenge", oauth2.S256ChallengeFromVerifier(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// VerifyDiscord exchanges the callback code, fetches the Discord account
// and returns the matching user, creating one on first login. The redirect
// recorded at flow start is returned for the controller to send the user
// back where they came from.
func (s *OauthService) VerifyDiscord(state string, code string) (*repository.User, string, error) {
	s.mu.Lock()
	authState, ok := s.stateMap[state]
	delete(s.stateMap, state)
	s.mu.Unlock()
	if !ok || authState.Timeout < time.Now().Unix() {
		return nil, "", fmt.Errorf("login attempt expired, please retry")
	}

	token, err := s.discordConfig.Exchange(context.Background(), code, oauth2.SetAuthURLParam("code_verifier", authState.Verifier))
	if err != nil {
		return nil, "", fmt.Errorf("code exchange failed: %v", err)
	}

	client := s.discordConfig.Client(context.Background(), token)
	response, err := client.Get("https://discord.com/api/users/@me")
	if err != nil {
		return nil, "", err
	}
	defer response.Body.Close()
	discordUser := &DiscordUserResponse{}
	if err := json.NewDecoder(response.Body).Decode(discordUser); err != nil {
		return nil, "", fmt.Errorf("failed to decode discord user: %v", err)
	}

	displayName := discordUser.GlobalName
	if displayName == "" {
		displayName = discordUser.Username
	}
	user, err := s.userService.GetUserByOauthProviderAndAccountId(repository.ProviderDiscord, discordUser.Id)
	if err != nil {
		user = &repository.User{
			DisplayName: displayName,
			Permissions: []string{},
		}
		user, err = s.userService.SaveUser(user)
		if err != nil {
			return nil, "", err
		}
	}

	oauth := &repository.Oauth{
		UserId:       user.Id,
		Provider:     repository.ProviderDiscord,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
		Name:         discordUser.Username,
		AccountId:    discordUser.Id,
	}
	if err := s.userService.oauthRepository.SaveOauth(oauth); err != nil {
		return nil, "", err
	}
	return user, authState.Redirect, nil
}
