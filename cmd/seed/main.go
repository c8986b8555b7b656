package main

import (
	"context"
	"log"
	"os"

	"github.com/baedalmoa/parcel-lookup/internal/awsx"
	"github.com/baedalmoa/parcel-lookup/internal/carriers"
)

// seed loads the carrier table with the delivery companies the service
// resolves display names against.

var seedCarriers = []carriers.Carrier{
	{ID: 1, Name: "CJ대한통운", BaseURL: "https://www.cjlogistics.com/ko/tool/parcel/tracking?gnrlInvoiceNum="},
	{ID: 2, Name: "우체국택배", BaseURL: "https://service.epost.go.kr/trace.RetrieveDomRgiTraceList.comm?sid1="},
	{ID: 3, Name: "한진택배", BaseURL: "https://www.hanjin.com/kor/CMS/DeliveryMgr/WaybillResult.do?mession_open=Y&wblnumText2="},
	{ID: 4, Name: "롯데택배", BaseURL: "https://www.lotteglogis.com/home/reservation/tracking/linkView?InvNo="},
	{ID: 5, Name: "로젠택배", BaseURL: "https://www.ilogen.com/web/personal/trace/"},
}

func main() {
	ctx := context.Background()

	clients, err := awsx.NewClients(ctx)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	table := os.Getenv("CARRIERS_TABLE")
	if table == "" {
		log.Fatal("CARRIERS_TABLE is required")
	}

	store := carriers.NewStore(clients.DynamoDB, table)
	for _, c := range seedCarriers {
		if err := store.Put(ctx, c); err != nil {
			log.Fatalf("seed carrier %q: %v", c.Name, err)
		}
		log.Printf("seeded carrier %q", c.Name)
	}
	log.Printf("carrier seeding completed (%d carriers)", len(seedCarriers))
}
