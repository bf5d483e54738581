package modelstesting

import (
	"math/rand"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FakeProduct returns models.CanonicalProduct with fake data, random attributes and random number of image refs.
func FakeProduct(ops ...func(p *models.CanonicalProduct)) models.CanonicalProduct {
	product := models.CanonicalProduct{
		SKU:            faker.UUIDDigit(),
		Name:           faker.Word(),
		Description:    faker.Sentence(),
		Price:          decimal.NewFromInt(rand.Int63n(10000)).Shift(-2),
		StockQuantity:  lo.ToPtr(rand.Intn(1000)),
		CategoryPath:   []string{faker.Word(), faker.Word()},
		Attributes:     fakeAttributes(),
		ImageRefs:      fakeImageRefs(),
		SourceNativeID: faker.UUIDDigit(),
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakeRawRecord returns models.RawRecord with provided fields and fake values for keys.
func FakeRawRecord(keys ...string) models.RawRecord {
	record := models.RawRecord{}
	for _, key := range keys {
		record.Add(key, faker.Word())
	}

	return record
}

func fakeAttributes() map[string]string {
	return map[string]string{
		"color":    faker.Word(),
		"material": faker.Word(),
	}
}

func fakeImageRefs() []string {
	refsLen := rand.Intn(4)
	refs := make([]string, 0, refsLen)
	for i := 0; i < refsLen; i++ {
		refs = append(refs, faker.Word()+".jpg")
	}

	return refs
}
