// Package mapper turns raw spreadsheet rows into canonical entities.
//
// Each field is resolved through an explicit, ordered alias list. The first
// alias of every list is the canonical JSON name, so mapping the JSON form of
// an already canonical entity returns an equal entity.
package mapper

import (
	"strings"

	"github.com/ogahribetzz/transparansi/internal/id"
	"github.com/ogahribetzz/transparansi/internal/model"
	"github.com/ogahribetzz/transparansi/internal/normalize"
)

// Transaction field aliases.
var (
	TransactionIDKeys       = []string{"id", "ID", "Id"}
	TransactionDateKeys     = []string{"date", "Date", "Tanggal", "tanggal", "Timestamp"}
	TransactionNameKeys     = []string{"name", "Name", "Nama Donatur", "Nama", "nama", "Keterangan", "Description"}
	TransactionAmountKeys   = []string{"amount", "Amount", "Nominal", "nominal", "Jumlah"}
	TransactionTypeKeys     = []string{"type", "Type", "Tipe", "tipe", "Jenis"}
	TransactionCategoryKeys = []string{"category", "Category", "Kategori", "kategori"}
	TransactionStatusKeys   = []string{"status", "Status", "Verivikasi", "Verifikasi", "verifikasi"}
	TransactionProofKeys    = []string{"proofUrl", "ProofUrl", "proof_url", "Bukti Transfer", "Bukti"}
)

// Program field aliases.
var (
	ProgramIDKeys          = []string{"id", "ID", "Id"}
	ProgramTitleKeys       = []string{"title", "Title", "Judul", "Nama Program"}
	ProgramBatchKeys       = []string{"batch", "Batch"}
	ProgramStatusKeys      = []string{"status", "Status"}
	ProgramDescriptionKeys = []string{"description", "Description", "Deskripsi"}
	ProgramImageKeys       = []string{"image", "Image", "imageUrl", "Gambar"}
	ProgramLinkKeys        = []string{"link", "Link", "URL"}
)

// MapLocation field aliases.
var (
	LocationIDKeys          = []string{"id", "ID", "Id"}
	LocationTitleKeys       = []string{"title", "Title", "Nama Lokasi", "Lokasi"}
	LocationLatKeys         = []string{"lat", "Lat", "Latitude", "latitude"}
	LocationLngKeys         = []string{"lng", "Lng", "Longitude", "longitude", "Long"}
	LocationDescriptionKeys = []string{"description", "Description", "Deskripsi"}
	LocationBatchKeys       = []string{"programBatch", "ProgramBatch", "Batch", "batch"}
)

// AppConfig field aliases.
var (
	ConfigLogoKeys    = []string{"logoUrl", "LogoUrl", "logo_url", "Logo"}
	ConfigQrisKeys    = []string{"qrisUrl", "QrisUrl", "qris_url", "QRIS"}
	ConfigYoutubeKeys = []string{"youtubePlaylistId", "YoutubePlaylistId", "youtube_playlist_id", "Youtube"}
)

// Key/value row aliases used when config arrives as a sheet of rows.
var (
	ConfigRowKeyKeys   = []string{"key", "Key", "Kunci"}
	ConfigRowValueKeys = []string{"value", "Value", "Nilai"}
)

// Transaction maps one raw row to a Transaction.
func Transaction(rec normalize.Record) model.Transaction {
	date := dateField(rec, TransactionDateKeys)
	name := normalize.String(rec, TransactionNameKeys, model.DefaultDonorName)
	amount := normalize.Int(rec, TransactionAmountKeys)

	txID := normalize.String(rec, TransactionIDKeys, "")
	if txID == "" {
		txID = id.TransactionID(date, name, amount)
	}

	typ, _ := normalize.Lookup(rec, TransactionTypeKeys)
	status, _ := normalize.Lookup(rec, TransactionStatusKeys)

	return model.Transaction{
		ID:       txID,
		Date:     date,
		Name:     name,
		Amount:   amount,
		Type:     normalize.TransactionType(typ),
		Category: normalize.String(rec, TransactionCategoryKeys, model.DefaultCategory),
		Status:   normalize.TransactionStatus(status),
		ProofURL: normalize.String(rec, TransactionProofKeys, ""),
	}
}

// Program maps one raw row to a Program.
func Program(rec normalize.Record) model.Program {
	status, _ := normalize.Lookup(rec, ProgramStatusKeys)
	return model.Program{
		ID:          normalize.String(rec, ProgramIDKeys, ""),
		Title:       normalize.String(rec, ProgramTitleKeys, ""),
		Batch:       normalize.String(rec, ProgramBatchKeys, ""),
		Status:      normalize.ProgramStatus(status),
		Description: normalize.String(rec, ProgramDescriptionKeys, ""),
		Image:       normalize.String(rec, ProgramImageKeys, ""),
		Link:        normalize.String(rec, ProgramLinkKeys, ""),
	}
}

// Location maps one raw row to a MapLocation.
func Location(rec normalize.Record) model.MapLocation {
	return model.MapLocation{
		ID:           normalize.String(rec, LocationIDKeys, ""),
		Title:        normalize.String(rec, LocationTitleKeys, ""),
		Lat:          normalize.Float(rec, LocationLatKeys),
		Lng:          normalize.Float(rec, LocationLngKeys),
		Description:  normalize.String(rec, LocationDescriptionKeys, ""),
		ProgramBatch: normalize.String(rec, LocationBatchKeys, ""),
	}
}

// ConfigPatch extracts the config fields present in rec. Absent or blank
// fields stay nil so they do not overwrite the current config.
func ConfigPatch(rec normalize.Record) model.ConfigPatch {
	return model.ConfigPatch{
		LogoURL:           optionalString(rec, ConfigLogoKeys),
		QrisURL:           optionalString(rec, ConfigQrisKeys),
		YoutubePlaylistID: optionalString(rec, ConfigYoutubeKeys),
	}
}

func optionalString(rec normalize.Record, keys []string) *string {
	s := normalize.String(rec, keys, "")
	if s == "" {
		return nil
	}
	return &s
}

func dateField(rec normalize.Record, keys []string) string {
	v, ok := normalize.Lookup(rec, keys)
	if !ok {
		return ""
	}
	return normalize.Date(v)
}

// ConfigRecord accepts a getConfig payload as either one object or an array
// of key/value rows, and returns it as a single record.
func ConfigRecord(data any) (normalize.Record, bool) {
	switch x := data.(type) {
	case map[string]any:
		return normalize.Record(x), true
	case []any:
		rec := make(normalize.Record)
		for _, item := range x {
			row, ok := item.(map[string]any)
			if !ok {
				continue
			}
			key := normalize.String(row, ConfigRowKeyKeys, "")
			if key == "" {
				continue
			}
			if v, ok := normalize.Lookup(row, ConfigRowValueKeys); ok {
				rec[strings.TrimSpace(key)] = v
			}
		}
		if len(rec) == 0 {
			return nil, false
		}
		return rec, true
	default:
		return nil, false
	}
}
