package domain

type Network string

const (
	NetworkInstagram    Network = "instagram"
	NetworkLinkedIn     Network = "linkedin"
	NetworkFacebook     Network = "facebook"
	NetworkYouTube      Network = "youtube"
	NetworkWebAnalytics Network = "webanalytics"
)

// SocialNetworks is the fixed configuration order. The resolver and the report
// assembler both iterate it so sections always come out in the same order.
var SocialNetworks = []Network{
	NetworkInstagram,
	NetworkLinkedIn,
	NetworkFacebook,
	NetworkYouTube,
}

// Project is one client account as listed by the provider.
type Project struct {
	BlogID int    `json:"blog_id"`
	Name   string `json:"name"`
	URL    string `json:"url,omitempty"`
}

// ProjectProfile carries the per-network handle/page metadata of a project.
// A network is configured for the project exactly when its identifier field is
// non-empty. Immutable after creation, cached for the session lifetime.
type ProjectProfile struct {
	BlogID            int    `json:"blog_id"`
	Name              string `json:"label"`
	InstagramHandle   string `json:"instagram"`
	LinkedInCompanyID string `json:"linkedinCompany"`
	LinkedInName      string `json:"linkedInCompanyName"`
	FacebookPage      string `json:"facebook"`
	FacebookPageID    string `json:"facebookPageId"`
	YouTubeChannelID  string `json:"youtube"`
	YouTubeChannel    string `json:"youtubeChannelName"`
}

// Identifier returns the profile field that marks a network as configured.
// Web analytics is a site-level integration with no profile field.
func (p *ProjectProfile) Identifier(n Network) string {
	switch n {
	case NetworkInstagram:
		return p.InstagramHandle
	case NetworkLinkedIn:
		return p.LinkedInCompanyID
	case NetworkFacebook:
		return p.FacebookPage
	case NetworkYouTube:
		return p.YouTubeChannelID
	default:
		return ""
	}
}

// DisplayName returns the human label shown next to a configured network.
func (p *ProjectProfile) DisplayName(n Network) string {
	switch n {
	case NetworkInstagram:
		return "@" + p.InstagramHandle
	case NetworkLinkedIn:
		return p.LinkedInName
	case NetworkFacebook:
		return p.FacebookPage
	case NetworkYouTube:
		return p.YouTubeChannel
	default:
		return ""
	}
}

type NetworkAvailability struct {
	Network    Network `json:"network"`
	Configured bool    `json:"configured"`
	HasData    bool    `json:"has_data"`
	Handle     string  `json:"handle,omitempty"`
}
