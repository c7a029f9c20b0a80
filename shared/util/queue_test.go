package util

import "testing"

func TestWorkQueue(t *testing.T) {
	q := NewWorkQueue[string, int]()

	if !q.Enqueue("stone") {
		t.Fatal("primeiro Enqueue deveria inserir")
	}
	if q.Enqueue("stone") {
		t.Fatal("chave repetida não deveria entrar de novo")
	}
	q.Enqueue("dirt")

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	k, ok := q.Dequeue()
	if !ok || k != "stone" {
		t.Errorf("Dequeue() = %q, %v; want stone, true", k, ok)
	}
	if q.Enqueue("stone") {
		t.Error("stone em processamento ainda está reservada")
	}
	if q.Pending() != 2 {
		t.Errorf("Pending() = %d, want 2", q.Pending())
	}

	q.Done("stone", 0)
	if !q.Enqueue("stone") {
		t.Error("após Done a chave pode voltar à fila")
	}
}

func TestWorkQueueWaiters(t *testing.T) {
	q := NewWorkQueue[string, int]()
	a := q.Wait("stone")
	b := q.Wait("stone")
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", q.Len())
	}

	k, _ := q.Dequeue()
	c := q.Wait(k) // chega durante o processamento
	if q.Len() != 0 {
		t.Error("Wait em chave em processamento não deveria enfileirar")
	}
	if n := q.Done(k, 7); n != 3 {
		t.Errorf("Done() = %d, want 3", n)
	}
	for i, ch := range []<-chan int{a, b, c} {
		if v := <-ch; v != 7 {
			t.Errorf("waiter %d recebeu %d, want 7", i, v)
		}
	}
}

func TestWorkQueueDropUnwaited(t *testing.T) {
	q := NewWorkQueue[string, int]()
	q.Enqueue("stone")
	waited := q.Wait("dirt")
	q.Enqueue("sand")

	dropped := q.DropUnwaited()
	if len(dropped) != 2 || dropped[0] != "stone" || dropped[1] != "sand" {
		t.Fatalf("DropUnwaited() = %v, want [stone sand]", dropped)
	}
	k, ok := q.Dequeue()
	if !ok || k != "dirt" {
		t.Fatalf("Dequeue() = %q, %v; want dirt, true", k, ok)
	}
	q.Done(k, 1)
	if v := <-waited; v != 1 {
		t.Errorf("waiter recebeu %d, want 1", v)
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("fila deveria estar vazia")
	}
}
