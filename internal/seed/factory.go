// Package seed creates demo data for development databases. Every entity is
// validated and stored through the regular collections, so defaults, list
// caches and ids behave exactly as they do for API writes.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"artlink/internal/models"
	"artlink/internal/repository"
	"artlink/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	artTags         = []string{"abstract", "portrait", "landscape", "oil", "watercolor", "ink", "digital", "sculpture", "street", "minimal"}
	mediums         = []string{"Oil on canvas", "Acrylic on board", "Watercolor on paper", "Ink on paper", "Mixed media", "Bronze"}
	supplyCategory  = []string{"Brushes", "Paints", "Canvas", "Paper", "Tools"}
	supplyBrands    = []string{"Winsor & Newton", "Golden", "Liquitex", "Sennelier", "Arches"}
	priceRanges     = []string{"$100-$300", "$300-$800", "$800-$2000", "On request"}
	artworkStatuses = []models.AvailabilityStatus{
		models.AvailabilityAvailable,
		models.AvailabilityReserved,
		models.AvailabilitySold,
		models.AvailabilityCommissionOnly,
	}
	roles = []models.Role{models.RoleArtist, models.RoleCollector, models.RoleBoth}
)

// Factory builds valid ArtLink entities from fake data.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory returns a Factory. A zero seed picks a time-based one.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(seed)}
}

func (f *Factory) imageURL() string {
	return fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
}

func (f *Factory) tags(n int) []string {
	seen := map[string]bool{}
	out := make([]string, 0, n)
	for len(out) < n {
		t := f.faker.RandomString(artTags)
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func (f *Factory) text(s string) *string { return &s }

// BuildUser returns a user with a random role.
func (f *Factory) BuildUser() *models.User {
	u := models.NewUser()
	u.Name = f.faker.Name()
	u.Email = strings.ToLower(f.faker.Email())
	u.Role = roles[f.faker.Number(0, len(roles)-1)]
	u.AvatarURL = f.text(fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()))
	u.Bio = f.text(f.faker.Sentence(12))
	u.Location = f.text(f.faker.City())
	return u
}

// BuildArtwork returns an artwork owned by artistID.
func (f *Factory) BuildArtwork(artistID string) *models.Artwork {
	a := models.NewArtwork()
	a.ArtistID = artistID
	a.Title = strings.TrimSuffix(f.faker.Sentence(3), ".")
	a.Story = f.text(f.faker.Paragraph(1, 3, 12, " "))
	a.Media = f.text(f.faker.RandomString(mediums))
	a.Dimensions = f.text(fmt.Sprintf("%dx%d cm", f.faker.Number(20, 200), f.faker.Number(20, 200)))
	year := f.faker.Number(1990, time.Now().Year())
	a.Year = &year
	a.Images = []string{f.imageURL(), f.imageURL()}
	a.PriceRange = f.text(f.faker.RandomString(priceRanges))
	a.AvailabilityStatus = artworkStatuses[f.faker.Number(0, len(artworkStatuses)-1)]
	a.Tags = f.tags(f.faker.Number(1, 3))
	a.Location = f.text(f.faker.City())
	a.Likes = f.faker.Number(0, 500)
	a.Views = a.Likes * f.faker.Number(2, 20)
	return a
}

// BuildSupply returns an in-stock art supply.
func (f *Factory) BuildSupply() *models.Supply {
	s := models.NewSupply()
	s.Category = f.faker.RandomString(supplyCategory)
	s.Title = fmt.Sprintf("%s %s", f.faker.Color(), strings.TrimSuffix(s.Category, "s"))
	s.Description = f.text(f.faker.Sentence(10))
	price := f.faker.Price(2, 150)
	s.Price = &price
	s.Images = []string{f.imageURL()}
	s.Stock = f.faker.Number(0, 200)
	s.Brand = f.text(f.faker.RandomString(supplyBrands))
	return s
}

// BuildPost returns a community post written by authorID.
func (f *Factory) BuildPost(authorID string) *models.Post {
	p := models.NewPost()
	p.AuthorID = authorID
	p.Text = f.faker.Paragraph(1, 2, 15, " ")
	if f.faker.Bool() {
		p.Images = []string{f.imageURL()}
	}
	p.Tags = f.tags(f.faker.Number(0, 2))
	p.Likes = f.faker.Number(0, 120)
	return p
}

// BuildComment returns a comment on postID.
func (f *Factory) BuildComment(postID, authorID string) *models.Comment {
	c := models.NewComment()
	c.PostID = postID
	c.AuthorID = authorID
	c.Text = f.faker.Sentence(8)
	when := f.faker.DateRange(time.Now().AddDate(0, -3, 0), time.Now()).UTC()
	c.CreatedAt = &when
	return c
}

// BuildOrderInput returns raw order input for between one and three of supplies.
func (f *Factory) BuildOrderInput(supplies []models.Supply) models.OrderInput {
	in := models.OrderInput{
		BuyerName:       f.faker.Name(),
		BuyerEmail:      strings.ToLower(f.faker.Email()),
		ShippingAddress: f.faker.Address().Address,
		Items:           []map[string]any{},
	}
	n := f.faker.Number(1, 3)
	for i := 0; i < n && len(supplies) > 0; i++ {
		s := supplies[f.faker.Number(0, len(supplies)-1)]
		in.Items = append(in.Items, map[string]any{
			"supply_id": s.ID,
			"title":     s.Title,
			"price":     *s.Price,
			"quantity":  f.faker.Number(1, 4),
		})
	}
	return in
}

func create[T any](ctx context.Context, store repository.Store[T], doc *T) (string, error) {
	if err := validation.Struct(doc, ""); err != nil {
		return "", err
	}
	return store.Create(ctx, doc)
}
