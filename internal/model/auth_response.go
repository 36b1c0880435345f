package model

// AccessToken wraps a signed JWT for login/register responses
type AccessToken struct {
	AccessToken string `json:"access_token"`
}

// SeekerResponse struct holds the response data for seeker login or registration
type SeekerResponse struct {
	User        SeekerUser `json:"user"`
	AccessToken string     `json:"access_token"`
}

// SetAccessToken sets the access token in the SeekerResponse
func (r *SeekerResponse) SetAccessToken(accessToken string) {
	r.AccessToken = accessToken
}

// EmployerResponse struct holds the response data for employer login or registration
type EmployerResponse struct {
	User        Company `json:"user"`
	AccessToken string  `json:"access_token"`
}

// SetAccessToken sets the access token in the EmployerResponse
func (r *EmployerResponse) SetAccessToken(accessToken string) {
	r.AccessToken = accessToken
}
