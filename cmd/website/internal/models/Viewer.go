package models

import "time"

/*
Viewer is the session identity for someone who has passed the view
password gate. It carries no account data; the site has no accounts.
*/
type Viewer struct {
	GrantedAt time.Time
}
