package paddio

// Role is the role of a platform account.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
)

// Token is the response of the login endpoint.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CurrentUser is the profile of the logged-in account.
type CurrentUser struct {
	ID            int64    `json:"id" msgpack:"id"`
	Email         string   `json:"email" msgpack:"email"`
	Name          string   `json:"name" msgpack:"name"`
	Role          Role     `json:"role" msgpack:"role"`
	Phone         *string  `json:"phone,omitempty" msgpack:"phone"`
	CreatedAt     string   `json:"created_at" msgpack:"created_at"`
	OverallRating *float64 `json:"overall_rating,omitempty" msgpack:"overall_rating"`
}

// Admin is a club administrator account.
type Admin struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	ClubID    *int64  `json:"club_id"`
	ClubName  *string `json:"club_name"`
	IsActive  bool    `json:"is_active"`
	Role      Role    `json:"role"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

// Club is a venue with courts.
type Club struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Logo         *string `json:"logo"`
	OpeningTime  *string `json:"opening_time"`
	ClosingTime  *string `json:"closing_time"`
	TurnMinutes  int     `json:"turn_duration_minutes"`
	PricePerTurn int64   `json:"price_per_turn"` // cents
	IsActive     *bool   `json:"is_active"`
	AdminID      *int64  `json:"admin_id"`
	AdminName    *string `json:"admin_name"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    *string `json:"updated_at"`
}

// Active reports whether the club is active. Clubs that do not say are.
func (c Club) Active() bool {
	return c.IsActive == nil || *c.IsActive
}

// Court belongs to a club.
type Court struct {
	ID          int64   `json:"id"`
	ClubID      int64   `json:"club_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	SurfaceType *string `json:"surface_type"`
	IsIndoor    bool    `json:"is_indoor"`
	HasLighting bool    `json:"has_lighting"`
	IsAvailable bool    `json:"is_available"`
	CreatedAt   *string `json:"created_at"`
}

// User is a player account of the platform.
type User struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	LastName          *string  `json:"last_name"`
	Email             string   `json:"email"`
	Phone             *string  `json:"phone"`
	IsProfileComplete bool     `json:"is_profile_complete"`
	Category          *string  `json:"category"`
	Gender            *string  `json:"gender"`
	Height            *float64 `json:"height"` // cm
	IsActive          bool     `json:"is_active"`
	IsAdmin           bool     `json:"is_admin"`
	IsSuperAdmin      bool     `json:"is_super_admin"`
	ClubID            *int64   `json:"club_id"`
	City              *string  `json:"city"`
	Province          *string  `json:"province"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         *string  `json:"updated_at"`
}

// FullName joins the first and last name.
func (u User) FullName() string {
	if u.LastName == nil || *u.LastName == "" {
		return u.Name
	}
	return u.Name + " " + *u.LastName
}

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	MatchAvailable  MatchStatus = "available"
	MatchReserved   MatchStatus = "reserved"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
)

// Player is a participant of a match.
type Player struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Gender *string `json:"gender"`
}

// Match is a played or scheduled match.
type Match struct {
	ID           int64       `json:"id"`
	CourtID      int64       `json:"court_id"`
	CourtName    *string     `json:"court_name"`
	ClubID       int64       `json:"club_id"`
	ClubName     *string     `json:"club_name"`
	StartTime    string      `json:"start_time"`
	EndTime      string      `json:"end_time"`
	Status       MatchStatus `json:"status"`
	Score        *string     `json:"score"`
	CreatedAt    string      `json:"created_at"`
	CreatorID    int64       `json:"creator_id"`
	CreatorName  *string     `json:"creator_name"`
	CreatorEmail *string     `json:"creator_email"`
	Players      []Player    `json:"players"`
}

// TurnStatus is the lifecycle state of a pregame turn.
type TurnStatus string

const (
	TurnAvailable   TurnStatus = "AVAILABLE"
	TurnPending     TurnStatus = "PENDING"
	TurnReadyToPlay TurnStatus = "READY_TO_PLAY"
	TurnCancelled   TurnStatus = "CANCELLED"
	TurnCompleted   TurnStatus = "COMPLETED"
)

// TurnStatuses lists the statuses in lifecycle order.
var TurnStatuses = []TurnStatus{TurnAvailable, TurnPending, TurnReadyToPlay, TurnCancelled, TurnCompleted}

// PregameTurn is a reservation: a slot where a match is being formed.
// CourtName, PlayersCount and IsMixedMatch are only sent by the per-user
// reservations endpoint.
type PregameTurn struct {
	ID                  int64      `json:"id"`
	TurnID              int64      `json:"turn_id"`
	CourtID             int64      `json:"court_id"`
	CourtName           *string    `json:"court_name,omitempty"`
	Date                string     `json:"date"`
	StartTime           string     `json:"start_time"`
	EndTime             string     `json:"end_time"`
	Status              TurnStatus `json:"status"`
	CancellationMessage *string    `json:"cancellation_message"`
	ClubID              int64      `json:"club_id"`
	ClubName            *string    `json:"club_name"`
	PlayersCount        *int       `json:"players_count,omitempty"`
	IsMixedMatch        *bool      `json:"is_mixed_match,omitempty"`
	CreatedAt           *string    `json:"created_at"`
}

// UserReservations is the reservation history of one user.
type UserReservations struct {
	UserID       int64         `json:"user_id"`
	Reservations []PregameTurn `json:"reservations"`
	Total        int           `json:"total"`
}

// Notification is the content of a push notification.
type Notification struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// BroadcastRequest is a notification sent to many users at once. Category
// and OnlyActiveUsers travel as query parameters; OnlyActiveUsers defaults
// to true when nil.
type BroadcastRequest struct {
	Notification
	Category        *string `json:"-"`
	OnlyActiveUsers *bool   `json:"-"`
}

// OnlyActive resolves OnlyActiveUsers with its default.
func (r BroadcastRequest) OnlyActive() bool {
	return r.OnlyActiveUsers == nil || *r.OnlyActiveUsers
}

// NotificationResult is the API's acknowledgement of a sent notification.
type NotificationResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	SentCount   int    `json:"sent_count"`
	FailedCount int    `json:"failed_count"`
}

// BroadcastData is the audience and outcome stored with a sent broadcast.
type BroadcastData struct {
	FromAdmin        *string `json:"from_admin,omitempty"`
	AdminName        *string `json:"admin_name,omitempty"`
	Category         *string `json:"category,omitempty"`
	OnlyActiveUsers  *bool   `json:"only_active_users,omitempty"`
	TargetUsersCount int     `json:"target_users_count"`
	UsersWithTokens  int     `json:"users_with_tokens"`
	SentCount        int     `json:"sent_count"`
	FailedCount      int     `json:"failed_count"`
}

// BroadcastHistoryItem is one sent broadcast.
type BroadcastHistoryItem struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	IsRead    bool           `json:"is_read"`
	Data      *BroadcastData `json:"data"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// Info returns Data, or its zero value when the item carries none.
func (n BroadcastHistoryItem) Info() BroadcastData {
	if n.Data == nil {
		return BroadcastData{}
	}
	return *n.Data
}
