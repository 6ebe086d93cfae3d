package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Quick connectivity and row-count check against the feature fact
// table. Run with CLICKHOUSE_URL set.
func main() {
	ctx := context.Background()

	dsn := os.Getenv("CLICKHOUSE_URL")
	if dsn == "" {
		dsn = "clickhouse://localhost:9000/default"
	}
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatal(err)
	}

	var count uint64
	err = conn.QueryRow(ctx, "SELECT count() FROM extracted_features").Scan(&count)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total feature rows: %d\n", count)

	rows, err := conn.Query(ctx, `
		SELECT feature_name, count() AS n
		FROM extracted_features
		GROUP BY feature_name
		ORDER BY n DESC
	`)
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var n uint64
		if err := rows.Scan(&name, &n); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%-24s %d\n", name, n)
	}
}
