package dto

type CreatePublicationRequest struct {
	PublicationType string `json:"publication_type"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	PetType         string `json:"pet_type"`
	PetSize         string `json:"pet_size,omitempty"`
	PetColor        string `json:"pet_color,omitempty"`
	PetBreed        string `json:"pet_breed,omitempty"`
	Location        string `json:"location"`
	EventDate       string `json:"event_date"` // YYYY-MM-DD
	ContactPhone    string `json:"contact_phone,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty"`
	IsUrgent        bool   `json:"is_urgent"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
