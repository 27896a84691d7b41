package model

// Album represents an album.
type Album struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	ArtistID    string `json:"artistId,omitempty"`
	CoverURL    string `json:"coverUrl,omitempty"`
	ReleaseYear int    `json:"releaseYear,omitempty"`
	SongsCount  int    `json:"songsCount,omitempty"`
}

// Comment is a comment on a song, written by a user.
type Comment struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	UserName string `json:"userName,omitempty"`
	Content  string `json:"content"`
}
