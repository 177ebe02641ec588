package transfer

import "fmt"

// LinkedInTokenResponse is the token endpoint payload for both the
// authorization-code and the refresh-token grants. refresh_token is absent
// when LinkedIn does not rotate it.
type LinkedInTokenResponse struct {
	AccessToken           string `json:"access_token"`
	ExpiresIn             int64  `json:"expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	Scope                 string `json:"scope"`
}

func (t *LinkedInTokenResponse) Validate() error {
	if t.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}
	if t.ExpiresIn <= 0 {
		return fmt.Errorf("token response missing expires_in")
	}
	return nil
}

type LinkedInPostsResponse struct {
	Elements []LinkedInPost `json:"elements"`
}

type LinkedInPost struct {
	ID          string           `json:"id"`
	Author      string           `json:"author"`
	Commentary  string           `json:"commentary"`
	Visibility  string           `json:"visibility"`
	PublishedAt int64            `json:"publishedAt"` // epoch milliseconds
	Content     *LinkedInContent `json:"content,omitempty"`
}

type LinkedInContent struct {
	Media   *LinkedInMedia   `json:"media,omitempty"`
	Article *LinkedInArticle `json:"article,omitempty"`
}

type LinkedInMedia struct {
	ID      string `json:"id"`
	AltText string `json:"altText"`
}

type LinkedInArticle struct {
	Source string `json:"source"`
	Title  string `json:"title"`
}

func (p *LinkedInPost) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("post payload missing id")
	}
	if p.Author == "" {
		return fmt.Errorf("post %s missing author", p.ID)
	}
	if p.PublishedAt == 0 {
		return fmt.Errorf("post %s missing publishedAt", p.ID)
	}
	return nil
}

// MediaRef returns the post's attached media reference, or "" when the post
// carries no media.
func (p *LinkedInPost) MediaRef() string {
	if p.Content == nil {
		return ""
	}
	if p.Content.Article != nil {
		return p.Content.Article.Source
	}
	if p.Content.Media != nil {
		return p.Content.Media.ID
	}
	return ""
}

type LinkedInReactionsResponse struct {
	Elements []LinkedInReaction `json:"elements"`
}

type LinkedInReaction struct {
	Root         string        `json:"root"`
	ReactionType string        `json:"reactionType"`
	Created      LinkedInAudit `json:"created"`
}

func (r *LinkedInReaction) Validate() error {
	if r.Created.Actor == "" {
		return fmt.Errorf("reaction payload missing actor")
	}
	if r.ReactionType == "" {
		return fmt.Errorf("reaction by %s missing reactionType", r.Created.Actor)
	}
	return nil
}

type LinkedInCommentsResponse struct {
	Elements []LinkedInComment `json:"elements"`
}

type LinkedInComment struct {
	Actor   string                 `json:"actor"`
	Message LinkedInCommentMessage `json:"message"`
	Created LinkedInAudit          `json:"created"`
}

type LinkedInCommentMessage struct {
	Text string `json:"text"`
}

func (c *LinkedInComment) Validate() error {
	if c.Actor == "" {
		return fmt.Errorf("comment payload missing actor")
	}
	return nil
}

type LinkedInAudit struct {
	Actor string `json:"actor"`
	Time  int64  `json:"time"` // epoch milliseconds
}

type LinkedInErrorResponse struct {
	Status        int    `json:"status"`
	ServiceError  int    `json:"serviceErrorCode"`
	Message       string `json:"message"`
	ErrorDetail   string `json:"errorDetailType"`
}
