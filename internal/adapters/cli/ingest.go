package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kyogre-go/fisheries/internal/application/ingestion"
)

var ingestFile string

// NewIngestCommand groups the raw-record intake subcommands, one per
// source format.
func NewIngestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load raw ERS or landing records into the event store",
	}
	cmd.AddCommand(newIngestErsCommand())
	cmd.AddCommand(newIngestLandingsCommand())
	return cmd
}

func newIngestErsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ers",
		Short: "Ingest a CSV of raw ERS message rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readCSV(ingestFile)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var records []ingestion.ErsRecord
			for _, row := range rows {
				records = append(records, ingestion.ErsRecord{
					VesselId:        row["vessel_id"],
					MessageId:       row["message_id"],
					MessageVersion:  row["message_version"],
					MessageTypeCode: row["message_type_code"],
					Date:            row["date"],
					Time:            row["time"],
					PortCode:        row["port_code"],
				})
			}

			events, result := ingestion.NewNormalizer(a.log).IngestErs(records)
			inserted, deduped, err := a.events.Insert(cmd.Context(), events)
			if err != nil {
				return fmt.Errorf("failed to insert ERS events: %w", err)
			}

			fmt.Printf("ers: parsed=%d dropped=%d deduped_before_insert=%d inserted=%d superseded_on_write=%d\n",
				len(rows), result.Dropped, result.Deduped, inserted, deduped)
			return nil
		},
	}
	cmd.Flags().StringVar(&ingestFile, "file", "", "Path to the ERS CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newIngestLandingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "landings",
		Short: "Ingest a CSV of raw landing declaration rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readCSV(ingestFile)
			if err != nil {
				return err
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var records []ingestion.LandingRecord
			for _, row := range rows {
				records = append(records, ingestion.LandingRecord{
					LandingId:       row["landing_id"],
					DocumentVersion: row["document_version"],
					VesselId:        row["vessel_id"],
					Date:            row["date"],
					Time:            row["time"],
					Gear:            row["gear"],
				})
			}

			landings, result := ingestion.NewNormalizer(a.log).IngestLandings(records)
			if err := a.landings.Save(cmd.Context(), landings); err != nil {
				return fmt.Errorf("failed to save landings: %w", err)
			}

			fmt.Printf("landings: parsed=%d dropped=%d deduped=%d saved=%d\n",
				len(rows), result.Dropped, result.Deduped, result.Inserted)
			return nil
		},
	}
	cmd.Flags().StringVar(&ingestFile, "file", "", "Path to the landings CSV file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readCSV reads a comma-separated file into rows keyed by its header.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header from %s: %w", path, err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row from %s: %w", path, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
